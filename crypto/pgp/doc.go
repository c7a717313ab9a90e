// Package pgp provides the OpenPGP operations a message needs: clear-signing,
// signature verification, encryption, and decryption. It also knows how to
// find armored blocks in message text and strip their armor headers.
package pgp
