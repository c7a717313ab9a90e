// Package smime provides the CMS operations needed to read and write S/MIME
// messages: detached and opaque signature verification, envelope decryption,
// detached signing, and envelope encryption. The message splitter uses a
// Processor to unwrap signed and enveloped parts.
package smime
