package types

type ReminderType string

const (
	ReminderTypeRenewal     ReminderType = "renewal"
	ReminderTypeTrialEnding ReminderType = "trial_ending"
	ReminderTypeUnused      ReminderType = "unused"
)

// Channel is a delivery channel for reminders. Suppression is evaluated per
// channel at dispatch/read time; a reminder record itself is channel-agnostic.
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelInApp Channel = "in_app"
)

// ReminderDaysBefore is the set of accepted advance-notice windows, in days.
var ReminderDaysBefore = []int{2, 3, 5, 7}

const DefaultReminderDaysBefore = 2

func ValidReminderDaysBefore(d int) bool {
	for _, v := range ReminderDaysBefore {
		if v == d {
			return true
		}
	}
	return false
}
