// Package trigger provides pure evaluation of escalation trigger conditions.
package trigger

import "time"

// Trigger type constants for escalation rules.
const (
	TypeDaysBeforeDue = "days_before_due" // Fires in the run-up to the due date
	TypeDaysAfterDue  = "days_after_due"  // Fires once a task is overdue enough
	TypeProgressBelow = "progress_below"  // Fires on low progress near the due date
)

// progressWindowDays bounds how far before the due date a progress_below
// rule may fire. A task due more than this many days out is not yet at risk.
const progressWindowDays = 3

// ValidTypes lists the supported trigger types in a stable order.
var ValidTypes = []string{TypeDaysBeforeDue, TypeDaysAfterDue, TypeProgressBelow}

// IsValidType reports whether the given trigger type is supported.
func IsValidType(triggerType string) bool {
	for _, t := range ValidTypes {
		if t == triggerType {
			return true
		}
	}
	return false
}

// DaysUntilDue returns the whole-day distance from now to due: positive when
// the task is due in the future, negative when overdue. Both times are
// truncated to local midnight first, so time-of-day drift never produces a
// spurious off-by-one.
func DaysUntilDue(due, now time.Time) int {
	d := midnight(due)
	n := midnight(now)
	return int(d.Sub(n).Hours() / 24)
}

// Fires decides whether a rule with the given trigger fires for a task that
// is daysDiff whole days from its due date and at the given progress (0-100).
// Unknown trigger types never fire.
func Fires(triggerType string, triggerValue, daysDiff, progress int) bool {
	switch triggerType {
	case TypeDaysBeforeDue:
		return daysDiff >= 0 && daysDiff <= triggerValue
	case TypeDaysAfterDue:
		return daysDiff < 0 && -daysDiff >= triggerValue
	case TypeProgressBelow:
		return progress < triggerValue && daysDiff <= progressWindowDays
	default:
		return false
	}
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
