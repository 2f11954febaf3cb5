// Package covers stores cover images uploaded from the book forms.
//
// An Uploader validates the multipart file, hands it to a Processor that
// downscales and re-encodes it as JPEG and computes a BlurHash placeholder,
// and finally writes the result through a Storage backend: the local
// uploads directory served under /uploads, or a MinIO bucket.
package covers
