// Package pades implements a PAdES-B-B/B-T PDF digital-signing engine: it
// appends an incremental update carrying a detached CMS/PKCS#7 signature to
// an existing PDF, optionally timestamps it via RFC 3161, and can later
// verify the result. It never builds a full PDF object model — every
// operation is grounded in byte-level scanning and incremental-update
// construction (see internal/pdfscan, internal/pdfbuild).
//
// The three entry points mirror an external-signing split used by HSM/cloud
// KMS integrations: SignPDF does everything in one call given a
// crypto.Signer; PrepareForExternalSigning returns a digest for a remote
// signer to sign, and CompleteExternalSigning embeds the resulting CMS
// bytes afterwards.
package pades
