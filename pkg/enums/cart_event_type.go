package enums

import "fmt"

// CartEventType names the notifications emitted when a cart changes.
type CartEventType string

const (
	CartEventCreated       CartEventType = "cart.created"
	CartEventModified      CartEventType = "cart.modified"
	CartEventCancelled     CartEventType = "cart.cancelled"
	CartEventItemCancelled CartEventType = "cart.item_cancelled"
)

var validCartEventTypes = []CartEventType{
	CartEventCreated,
	CartEventModified,
	CartEventCancelled,
	CartEventItemCancelled,
}

// String implements fmt.Stringer.
func (c CartEventType) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CartEventType.
func (c CartEventType) IsValid() bool {
	for _, candidate := range validCartEventTypes {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCartEventType converts raw input into a CartEventType.
func ParseCartEventType(value string) (CartEventType, error) {
	for _, candidate := range validCartEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid cart event type %q", value)
}
