/*
Package transform provides the byte-transform primitives that decorators layer
onto repositories.

A Cipher seals and opens byte blobs; an Archiver compresses and decompresses
them. Both must be exact inverses for every blob they produce:

	c, _ := transform.NewAESGCM(key)
	sealed, _ := c.Seal(plain)
	opened, _ := c.Open(sealed) // opened == plain

Available implementations:
  - AES-GCM and XChaCha20-Poly1305 ciphers (random nonce prepended to output)
  - gzip and snappy archivers

KeyFromSecret derives fixed-size keys from configuration secrets with HKDF.
*/
package transform
