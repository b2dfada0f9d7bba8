package cards

import (
	"errors"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/quill/internal/dashboard"
	"github.com/colonyops/quill/pkg/tuitest"
)

func key(code rune) tea.KeyMsg {
	return tea.KeyPressMsg(tea.Key{Code: code})
}

func testVariants() []dashboard.Variant {
	return []dashboard.Variant{
		{Label: "gpt", Text: "Thank you for the kind words!"},
		{Label: "gpt_v2", Text: "We appreciate your feedback."},
		{Label: "gpt_v3", Text: "Glad you liked it!"},
	}
}

func TestVariantsModal_SkeletonWhileLoading(t *testing.T) {
	m := NewVariantsModal("f1", "Wool socks")

	assert.True(t, m.Loading())
	view := tuitest.StripANSI(m.View(100))
	assert.Contains(t, view, "Draft variants")
	assert.Contains(t, view, "Wool socks")
	assert.Contains(t, view, "░")
}

func TestVariantsModal_SelectionKeysIgnoredWhileLoading(t *testing.T) {
	m := NewVariantsModal("f1", "Wool socks")

	_, chosen, closed := m.HandleKey(key('1'))
	assert.False(t, chosen)
	assert.False(t, closed)

	_, chosen, closed = m.HandleKey(key(tea.KeyEnter))
	assert.False(t, chosen)
	assert.False(t, closed)
}

func TestVariantsModal_SelectByDigit(t *testing.T) {
	m := NewVariantsModal("f1", "Wool socks")
	m.SetResult(testVariants(), nil)

	choice, chosen, closed := m.HandleKey(key('2'))
	require.True(t, chosen)
	assert.True(t, closed)
	assert.Equal(t, "gpt_v2", choice.Label)
	assert.Equal(t, "We appreciate your feedback.", choice.Text)
}

func TestVariantsModal_SelectByEnter(t *testing.T) {
	m := NewVariantsModal("f1", "Wool socks")
	m.SetResult(testVariants(), nil)

	m.HandleKey(key('j'))
	m.HandleKey(key('j'))
	choice, chosen, closed := m.HandleKey(key(tea.KeyEnter))

	require.True(t, chosen)
	assert.True(t, closed)
	assert.Equal(t, "gpt_v3", choice.Label)
}

func TestVariantsModal_SelectionWraps(t *testing.T) {
	m := NewVariantsModal("f1", "Wool socks")
	m.SetResult(testVariants(), nil)

	m.HandleKey(key('k'))
	choice, chosen, _ := m.HandleKey(key(tea.KeyEnter))
	require.True(t, chosen)
	assert.Equal(t, "gpt_v3", choice.Label)
}

func TestVariantsModal_OutOfRangeDigitIgnored(t *testing.T) {
	m := NewVariantsModal("f1", "Wool socks")
	m.SetResult(testVariants(), nil)

	_, chosen, closed := m.HandleKey(key('9'))
	assert.False(t, chosen)
	assert.False(t, closed)
}

func TestVariantsModal_ExplicitClose(t *testing.T) {
	m := NewVariantsModal("f1", "Wool socks")
	m.SetResult(testVariants(), nil)

	_, chosen, closed := m.HandleKey(key('x'))
	assert.False(t, chosen)
	assert.True(t, closed)
}

func TestVariantsModal_DoubleEscDismiss(t *testing.T) {
	m := NewVariantsModal("f1", "Wool socks")
	m.SetResult(testVariants(), nil)

	clock := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return clock }

	_, _, closed := m.HandleKey(key(tea.KeyEscape))
	assert.False(t, closed, "first esc arms, does not close")
	assert.Contains(t, tuitest.StripANSI(m.View(100)), "press esc again to close")

	clock = clock.Add(time.Second)
	_, _, closed = m.HandleKey(key(tea.KeyEscape))
	assert.True(t, closed, "second esc inside the window closes")
}

func TestVariantsModal_EscWindowExpires(t *testing.T) {
	m := NewVariantsModal("f1", "Wool socks")
	m.SetResult(testVariants(), nil)

	clock := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return clock }

	_, _, closed := m.HandleKey(key(tea.KeyEscape))
	assert.False(t, closed)

	// The second press lands past the window, so it only re-arms.
	clock = clock.Add(3 * time.Second)
	_, _, closed = m.HandleKey(key(tea.KeyEscape))
	assert.False(t, closed)

	clock = clock.Add(time.Second)
	_, _, closed = m.HandleKey(key(tea.KeyEscape))
	assert.True(t, closed)
}

func TestVariantsModal_ErrorState(t *testing.T) {
	m := NewVariantsModal("f1", "Wool socks")
	m.SetResult(nil, errors.New("dashboard unreachable"))

	view := tuitest.StripANSI(m.View(100))
	assert.Contains(t, view, "Could not generate variants.")
	assert.Contains(t, view, "dashboard unreachable")

	_, chosen, closed := m.HandleKey(key(tea.KeyEnter))
	assert.False(t, chosen)
	assert.False(t, closed)

	_, _, closed = m.HandleKey(key('x'))
	assert.True(t, closed)
}

func TestVariantsModal_FallbackVariantRendersLikeText(t *testing.T) {
	m := NewVariantsModal("f1", "Wool socks")
	m.SetResult([]dashboard.Variant{
		{Label: "gpt", Text: "Thanks!"},
		{Label: "gpt_v2", Text: "Не удалось сгенерировать этот вариант. Попробуйте снова."},
	}, nil)

	view := tuitest.StripANSI(m.View(100))
	assert.Contains(t, view, "Не удалось сгенерировать этот вариант.")

	choice, chosen, _ := m.HandleKey(key('2'))
	require.True(t, chosen)
	assert.Contains(t, choice.Text, "Не удалось")
}
