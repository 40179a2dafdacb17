package sim

// Policy decides where the paddle goes next. The driver pulls one target
// at a time and only asks for the next after the previous one has been
// consumed (the paddle settled on it or a watchdog abandoned it), so a
// policy always observes an up-to-date simulation when it computes.
//
// Next returns the target's pixel X and true, or false once the policy
// judges its work done. Policies read the state only; its single writer
// is the driver.
type Policy interface {
	Next(s *State) (targetX float64, ok bool)
}
