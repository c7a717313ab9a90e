// Package mimecodec is an email message codec. It reads RFC 5322 and MIME
// text into a structured message, keeping track of the S/MIME and PGP
// envelopes around it, and writes a message back out as MIME.
//
// The work is split by part of the message. The message package holds the
// Message itself and the logic that resolves a body out of many parts. The
// message/header package parses the header block and message/header/param
// handles parameterized values such as Content-Type. The message/transfer
// package deals with transfer encodings and charsets, and message/mime
// splits multipart bodies, opening S/MIME layers on the way down.
//
// The cryptography is done by crypto/pgp, on top of ProtonMail's OpenPGP
// library, and crypto/smime, on top of go.mozilla.org/pkcs7. The message
// package only keeps the books on what was signed or encrypted.
//
// Parsing never fails on bad input. A message that cannot be fully
// understood is still returned, as complete as it could be made, and the
// header records what it skipped.
package mimecodec
