// Package mime splits a multipart body into its parts.
//
// Split walks nested multipart bodies and returns the leaf parts as a flat,
// depth-first list. It never fails: a body whose boundary cannot be found
// yields no parts and the caller falls back to treating the body as a whole.
//
// S/MIME layers are unwrapped along the way when a Processor is configured.
// The signature and envelope containers stay in the output so callers can see
// them, and every part records the signed, encrypted, and triple-wrapped state
// of the layers around it.
package mime
