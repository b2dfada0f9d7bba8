package wb

import "fmt"

// basketRange maps an inclusive vol upper bound to a basket host number.
// Ranges mirror the marketplace CDN sharding scheme.
type basketRange struct {
	maxVol int64
	basket int
}

var basketRanges = []basketRange{
	{143, 1},
	{287, 2},
	{431, 3},
	{719, 4},
	{1007, 5},
	{1061, 6},
	{1115, 7},
	{1169, 8},
	{1313, 9},
	{1601, 10},
	{1655, 11},
	{1919, 12},
	{2045, 13},
	{2189, 14},
	{2405, 15},
	{2621, 16},
	{2837, 17},
	{3053, 18},
	{3269, 19},
	{3485, 20},
}

const fallbackBasket = 21

// PhotoURL derives the product thumbnail URL from its nomenclature id using
// the CDN vol/part sharding layout.
func PhotoURL(nmID int64) string {
	if nmID <= 0 {
		return ""
	}

	vol := nmID / 100000
	part := nmID / 1000

	basket := fallbackBasket
	for _, r := range basketRanges {
		if vol <= r.maxVol {
			basket = r.basket
			break
		}
	}

	return fmt.Sprintf("https://basket-%02d.wbbasket.ru/vol%d/part%d/%d/images/tm/1.webp", basket, vol, part, nmID)
}
