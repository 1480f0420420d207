// Package barcode locates machine-readable codes so they can be masked.
// QR codes and barcodes routinely encode personal data such as tickets,
// boarding passes and payment links, which makes them scrub targets just
// like readable text. Detection reports only where a code sits, never
// what it decoded to.
//
// The default build carries no decoder backend. Enable the gozxing-backed
// detector with the build tag `gozxing`:
//
//	go build -tags=gozxing ./...
package barcode
