package ledger

// #region one-shot
// OneShot is a single-use capability: armed once, consumed by the first Take.
type OneShot struct {
	armed bool
}

// Arm makes the next Take return true. Arming an armed token is a no-op.
func (o *OneShot) Arm() {
	o.armed = true
}

// Armed reports whether the token is waiting to be taken, without consuming it.
func (o *OneShot) Armed() bool {
	return o.armed
}

// Take consumes the token and reports whether it was armed.
func (o *OneShot) Take() bool {
	was := o.armed
	o.armed = false
	return was
}

// #endregion one-shot
