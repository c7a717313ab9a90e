package message

import (
	"errors"
	"strings"
)

// ErrInvalidDeliveryNotification is returned when DeliveryNotificationNever
// is combined with another notification, or an unknown bit is set.
var ErrInvalidDeliveryNotification = errors.New("invalid delivery notification combination")

// DeliveryNotification selects when the sender asks to be told about
// delivery.
type DeliveryNotification uint

// DeliveryNotification values. All but DeliveryNotificationNever may be
// combined with |.
const (
	DeliveryNotificationOnSuccess DeliveryNotification = 1 << iota
	DeliveryNotificationOnFailure
	DeliveryNotificationDelay
	DeliveryNotificationNever

	DeliveryNotificationNone DeliveryNotification = 0

	deliveryNotificationAll = DeliveryNotificationOnSuccess |
		DeliveryNotificationOnFailure |
		DeliveryNotificationDelay |
		DeliveryNotificationNever
)

// String returns the notification in the form of an SMTP NOTIFY parameter,
// such as "SUCCESS,FAILURE". None is the empty string.
func (n DeliveryNotification) String() string {
	if n&DeliveryNotificationNever != 0 {
		return "NEVER"
	}

	var names []string
	if n&DeliveryNotificationOnSuccess != 0 {
		names = append(names, "SUCCESS")
	}
	if n&DeliveryNotificationOnFailure != 0 {
		names = append(names, "FAILURE")
	}
	if n&DeliveryNotificationDelay != 0 {
		names = append(names, "DELAY")
	}

	return strings.Join(names, ",")
}

// DeliveryNotification returns the delivery notifications requested.
func (m *Message) DeliveryNotification() DeliveryNotification {
	return m.deliveryNotification
}

// SetDeliveryNotification sets the delivery notifications requested. It
// returns ErrInvalidDeliveryNotification and keeps the current value when n
// combines DeliveryNotificationNever with anything else.
func (m *Message) SetDeliveryNotification(n DeliveryNotification) error {
	if n&^deliveryNotificationAll != 0 {
		return ErrInvalidDeliveryNotification
	}

	if n&DeliveryNotificationNever != 0 && n != DeliveryNotificationNever {
		return ErrInvalidDeliveryNotification
	}

	m.deliveryNotification = n
	return nil
}
