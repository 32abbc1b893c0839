package appointment

import "time"

// Slot is a bookable candidate produced by availability queries. It is never stored.
type Slot struct {
	BarberID  uint      `json:"barber_id"`
	ServiceID uint      `json:"service_id"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
}

func (s Slot) Interval() Interval {
	return Interval{Start: s.Start, End: s.End}
}
