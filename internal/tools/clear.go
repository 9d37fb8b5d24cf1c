package tools

// Clear implements the "clear" handler of spec §4.6: unconditionally
// clears Session State, bypassing the cooldown gate new_session uses
// elsewhere (this is the explicit, no-coalescing reset path). Still
// honors the interrupt gate like every other handler, per the uniform
// six-step contract in spec §4.6 — clear_cache.py in the original skips
// this check, but spec.md's "every handler" wording is authoritative.
func (h *Handlers) Clear() string {
	h.recordCall("[clear]")

	if msg, interrupted := h.interruptGate(); interrupted {
		return msg
	}

	h.State.Clear()
	output := "Cache cleared. Instruction files will be re-provided on next read."
	h.reportFilesTracked()
	return output
}
