// Package styles provides shared lipgloss v2 styles for CLI and TUI components.
package styles

import (
	"image/color"
	"sort"

	lipgloss "charm.land/lipgloss/v2"
	glamouransi "github.com/charmbracelet/glamour/ansi"
	glamourstyles "github.com/charmbracelet/glamour/styles"
	"github.com/lucasb-eyer/go-colorful"
)

// Palette defines a minimal semantic theme palette.
type Palette struct {
	Primary    color.Color
	Secondary  color.Color
	Foreground color.Color
	Muted      color.Color
	Background color.Color
	Surface    color.Color
	Success    color.Color
	Warning    color.Color
	Error      color.Color
}

// DefaultTheme is the name of the default theme.
const DefaultTheme = "tokyo-night"

// themes holds the built-in named palettes.
var themes = map[string]Palette{
	"tokyo-night": {
		Primary:    lipgloss.Color("#7aa2f7"),
		Secondary:  lipgloss.Color("#7dcfff"),
		Foreground: lipgloss.Color("#c0caf5"),
		Muted:      lipgloss.Color("#565f89"),
		Background: lipgloss.Color("#1a1b26"),
		Surface:    lipgloss.Color("#3b4261"),
		Success:    lipgloss.Color("#9ece6a"),
		Warning:    lipgloss.Color("#e0af68"),
		Error:      lipgloss.Color("#f7768e"),
	},
	"gruvbox": {
		Primary:    lipgloss.Color("#83a598"),
		Secondary:  lipgloss.Color("#8ec07c"),
		Foreground: lipgloss.Color("#ebdbb2"),
		Muted:      lipgloss.Color("#665c54"),
		Background: lipgloss.Color("#282828"),
		Surface:    lipgloss.Color("#3c3836"),
		Success:    lipgloss.Color("#b8bb26"),
		Warning:    lipgloss.Color("#fabd2f"),
		Error:      lipgloss.Color("#fb4934"),
	},
}

// ThemeNames returns sorted names of all built-in themes.
func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetPalette returns the palette for the given theme name.
func GetPalette(name string) (Palette, bool) {
	p, ok := themes[name]
	return p, ok
}

// CurrentPalette holds the active theme palette.
var CurrentPalette Palette

// Exported color aliases for convenience.
var (
	ColorPrimary    color.Color
	ColorSecondary  color.Color
	ColorForeground color.Color
	ColorMuted      color.Color
	ColorBackground color.Color
	ColorSurface    color.Color
	ColorSuccess    color.Color
	ColorWarning    color.Color
	ColorError      color.Color
)

// Style exports.
var (
	// CLI styles.
	CommandHeaderStyle lipgloss.Style
	CommandStyle       lipgloss.Style
	DividerStyle       lipgloss.Style

	// Shared text styles.
	TextForegroundStyle     lipgloss.Style
	TextForegroundBoldStyle lipgloss.Style
	TextPrimaryStyle        lipgloss.Style
	TextPrimaryBoldStyle    lipgloss.Style
	TextMutedStyle          lipgloss.Style
	TextSurfaceStyle        lipgloss.Style
	TextErrorStyle          lipgloss.Style
	TextSuccessStyle        lipgloss.Style
	TextWarningStyle        lipgloss.Style

	// TUI shared styles.
	ModalStyle               lipgloss.Style
	ModalTitleStyle          lipgloss.Style
	ModalHelpStyle           lipgloss.Style
	ModalButtonStyle         lipgloss.Style
	ModalButtonSelectedStyle lipgloss.Style

	ViewSelectedStyle lipgloss.Style
	ViewNormalStyle   lipgloss.Style
	TabBrandingStyle  lipgloss.Style

	// Toast styles.
	ToastInfoStyle    lipgloss.Style
	ToastWarningStyle lipgloss.Style
	ToastErrorStyle   lipgloss.Style

	// Card styles.
	CardStyle             lipgloss.Style
	CardTitleStyle        lipgloss.Style
	CardLinkStyle         lipgloss.Style
	CardMetaStyle         lipgloss.Style
	CardSectionLabelStyle lipgloss.Style
	CardPlaceholderStyle  lipgloss.Style
	CardCounterStyle      lipgloss.Style
	SentBadgeStyle        lipgloss.Style
	StarFilledStyle       lipgloss.Style
	StarEmptyStyle        lipgloss.Style
	ChipStyle             lipgloss.Style

	// Prompt and draft field styles.
	FormTitleStyle        lipgloss.Style
	FormFieldStyle        lipgloss.Style
	FormFieldFocusedStyle lipgloss.Style
	FormErrorStyle        lipgloss.Style
	FormHelpStyle         lipgloss.Style

	// Variant picker styles.
	SkeletonStyle            lipgloss.Style
	VariantCardStyle         lipgloss.Style
	VariantCardSelectedStyle lipgloss.Style

	// Preview modal styles.
	PreviewTitleStyle   lipgloss.Style
	PreviewTimeStyle    lipgloss.Style
	PreviewDividerStyle lipgloss.Style
	PreviewScrollStyle  lipgloss.Style

	// Help dialog styles.
	HelpDialogSectionStyle lipgloss.Style
	HelpDialogModalStyle   lipgloss.Style
	HelpDialogHelpStyle    lipgloss.Style
)

// ColorPool is used for deterministic color hashing of tag chips.
var ColorPool []color.Color

// SetTheme sets the active palette and rebuilds all global styles.
func SetTheme(p Palette) {
	CurrentPalette = p

	ColorPrimary = p.Primary
	ColorSecondary = p.Secondary
	ColorForeground = p.Foreground
	ColorMuted = p.Muted
	ColorBackground = p.Background
	ColorSurface = p.Surface
	ColorSuccess = p.Success
	ColorWarning = p.Warning
	ColorError = p.Error

	CommandHeaderStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)
	CommandStyle = lipgloss.NewStyle().
		Foreground(ColorForeground)
	DividerStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)

	TextForegroundStyle = lipgloss.NewStyle().
		Foreground(ColorForeground)
	TextForegroundBoldStyle = lipgloss.NewStyle().
		Foreground(ColorForeground).
		Bold(true)
	TextPrimaryStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary)
	TextPrimaryBoldStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)
	TextMutedStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)
	TextSurfaceStyle = lipgloss.NewStyle().
		Foreground(ColorSurface)
	TextErrorStyle = lipgloss.NewStyle().
		Foreground(ColorError)
	TextSuccessStyle = lipgloss.NewStyle().
		Foreground(ColorSuccess)
	TextWarningStyle = lipgloss.NewStyle().
		Foreground(ColorWarning)

	ModalStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorPrimary).
		Padding(1, 2)
	ModalTitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorForeground)
	ModalHelpStyle = lipgloss.NewStyle().
		Foreground(ColorMuted).
		MarginTop(1)
	ModalButtonStyle = lipgloss.NewStyle().
		Padding(0, 1).
		Background(ColorSurface).
		Foreground(ColorMuted)
	ModalButtonSelectedStyle = lipgloss.NewStyle().
		Padding(0, 1).
		Background(ColorPrimary).
		Foreground(ColorBackground).
		Bold(true)

	ViewSelectedStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)
	ViewNormalStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)
	TabBrandingStyle = lipgloss.NewStyle().
		Foreground(ColorBackground).
		Background(ColorPrimary).
		Padding(0, 1).
		Bold(true)

	ToastInfoStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorPrimary).
		Padding(0, 1)
	ToastWarningStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorWarning).
		Padding(0, 1)
	ToastErrorStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorError).
		Padding(0, 1)

	CardStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorSurface).
		Padding(0, 1)
	CardTitleStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)
	CardLinkStyle = lipgloss.NewStyle().
		Foreground(ColorSecondary).
		Underline(true)
	CardMetaStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)
	CardSectionLabelStyle = lipgloss.NewStyle().
		Foreground(ColorSecondary).
		Bold(true)
	CardPlaceholderStyle = lipgloss.NewStyle().
		Foreground(ColorMuted).
		Italic(true)
	CardCounterStyle = lipgloss.NewStyle().
		Foreground(ColorMuted).
		Bold(true)
	SentBadgeStyle = lipgloss.NewStyle().
		Foreground(ColorBackground).
		Background(ColorSuccess).
		Padding(0, 1).
		Bold(true)
	StarFilledStyle = lipgloss.NewStyle().
		Foreground(ColorWarning)
	StarEmptyStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)
	ChipStyle = lipgloss.NewStyle().
		Background(ColorSurface).
		Padding(0, 1)

	FormTitleStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)
	FormFieldStyle = lipgloss.NewStyle().
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(ColorMuted).
		PaddingLeft(1)
	FormFieldFocusedStyle = lipgloss.NewStyle().
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(ColorPrimary).
		PaddingLeft(1)
	FormErrorStyle = lipgloss.NewStyle().
		Foreground(ColorError)
	FormHelpStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)

	SkeletonStyle = lipgloss.NewStyle().
		Foreground(ColorSurface)
	VariantCardStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorSurface).
		Padding(0, 1)
	VariantCardSelectedStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorPrimary).
		Padding(0, 1)

	PreviewTitleStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)
	PreviewTimeStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)
	PreviewDividerStyle = lipgloss.NewStyle().
		Foreground(ColorSurface)
	PreviewScrollStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)

	HelpDialogSectionStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)
	HelpDialogModalStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorPrimary).
		Padding(1, 2)
	HelpDialogHelpStyle = lipgloss.NewStyle().
		Foreground(ColorMuted).
		MarginTop(1)

	ColorPool = []color.Color{
		ColorPrimary,
		ColorSecondary,
		ColorSuccess,
		ColorWarning,
		ColorError,
		ColorMuted,
	}
}

// ColorForString returns a deterministic color for a given string.
// The same string always produces the same color.
func ColorForString(s string) color.Color {
	var hash uint32
	for _, c := range s {
		hash = hash*31 + uint32(c)
	}
	return ColorPool[hash%uint32(len(ColorPool))]
}

// nolint:gochecknoinits // bootstrap default theme before any style is accessed.
func init() {
	SetTheme(themes[DefaultTheme])
}

func colorHexPtr(c color.Color) *string {
	if c == nil {
		return nil
	}
	cc, ok := colorful.MakeColor(c)
	if !ok {
		return nil
	}
	hex := cc.Hex()
	return &hex
}

// GlamourStyle returns a Glamour style config derived from the active theme.
func GlamourStyle() glamouransi.StyleConfig {
	cfg := glamourstyles.DarkStyleConfig

	fg := colorHexPtr(ColorForeground)
	primary := colorHexPtr(ColorPrimary)
	secondary := colorHexPtr(ColorSecondary)
	muted := colorHexPtr(ColorMuted)
	surface := colorHexPtr(ColorSurface)

	cfg.Document.Color = fg

	cfg.Paragraph.Color = fg

	cfg.Heading.Color = primary
	cfg.H1.Color = fg
	cfg.H1.BackgroundColor = surface
	cfg.H2.Color = primary
	cfg.H3.Color = primary
	cfg.H4.Color = primary
	cfg.H5.Color = primary
	cfg.H6.Color = primary

	cfg.BlockQuote.Color = muted
	cfg.HorizontalRule.Color = muted

	cfg.Link.Color = secondary
	cfg.LinkText.Color = secondary

	cfg.Code.Color = secondary
	cfg.CodeBlock.Color = muted

	cfg.Table.Color = fg

	return cfg
}
