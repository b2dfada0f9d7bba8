package styles

// Tip: To find icons use https://github.com/loichyan/nerdfix

var (
	IconQuill    = "\U000F0E2D" // 󰸭
	IconFeedback = ""     //
	IconQuestion = ""     //
	IconUser     = ""     //
	IconCalendar = ""     //
	IconLink     = ""     //
	IconTag      = ""     //
	IconSend     = ""     //
	IconRobot    = "\U000F06A9" // 󰚩
)

// Rating symbols.
var (
	IconStarFilled = "★"
	IconStarEmpty  = "☆"
)

// Notification level icons.
var (
	IconNotifyError = "" //
	IconNotifyWarn  = "" //
	IconNotifyInfo  = "" //
)
