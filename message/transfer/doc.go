// Package transfer contains utilities related to encoding and decoding transfer
// encodings, which interpret the Content-transfer-encoding header to apply
// certain 8bit to 7bit encodings. Only quoted-printable and base64 result in
// changes to the bytes being encoded or decoded. Other settings such as binary,
// 7bit, or 8bit, and any encoding name this package does not recognize, leave
// the bytes as-is.
//
// For the sake of this package, the term "decoded" means that the content has
// been transformed from the named Content-transfer-encoding to the charset
// encoded form. Meanwhile, "encoded" means that the content has been
// transformed from the charset encoding to the named Content-transfer-encoding.
//
// The package also carries the two encoding sniffers used when a body arrives
// with no declared transfer encoding, the charset codec, and Resolve, which is
// the single body decoding routine shared by the top-level body and every MIME
// part.
package transfer
