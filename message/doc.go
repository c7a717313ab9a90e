// Package message turns raw email text into a Message and a Message back
// into MIME. Parsing is forgiving: it survives missing colons, bad dates,
// unknown transfer encodings, and broken boundaries, and records what it had
// to skip rather than failing.
//
// A multipart body is split into its leaf parts, which are then folded into
// a single body, a list of alternate views, and a list of attachments. An
// HTML part always wins the body over plain text found before it, and the
// plain text becomes an alternate view:
//
//	msg := message.Parse(raw, message.WithFlags(message.IncludeRaw))
//	fmt.Println(msg.Subject, msg.BodyContentType)
//	for _, a := range msg.Attachments {
//	  fmt.Println(a.Name, len(a.Content))
//	}
//
// The S/MIME state of the message is the fold of the state of its parts: a
// message is signed only when every part that is not itself a signature or an
// envelope was signed. S/MIME layers are only opened when a processor is
// given with WithSMIME.
//
// PGP is handled on demand with SignPgp, VerifyPgpSignature, EncryptPgp, and
// DecryptPgp. Each reports success as a bool and leaves the message alone
// when it fails.
//
// To send a message, WriteMIME writes the body, alternate views, and
// attachments as a multipart body that goes with the fields returned by
// MultipartHeader.
package message
