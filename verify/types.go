package verify

// SignatureInfo is the outcome of examining one /Type /Sig dictionary in a
// PDF (spec §6.1). SignerName is always "Unknown" — chain/certificate
// parsing for display purposes is explicitly out of scope — and Trusted is
// always false, since certificate chain trust validation is a Non-goal.
type SignatureInfo struct {
	SignerName string
	SignedAt   string
	Valid      bool
	Trusted    bool
	Reason     string
}
