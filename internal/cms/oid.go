package cms

// Object identifier arcs the CMS builder needs, named after their RFC 5652 /
// RFC 5035 / PKCS#1 designations.
var (
	oidSignedData = []int{1, 2, 840, 113549, 1, 7, 2}
	oidData       = []int{1, 2, 840, 113549, 1, 7, 1}

	oidSHA256 = []int{2, 16, 840, 1, 101, 3, 4, 2, 1}

	oidRSAEncryptionSHA256 = []int{1, 2, 840, 113549, 1, 1, 11} // sha256WithRSAEncryption
	oidECDSAWithSHA256     = []int{1, 2, 840, 10045, 4, 3, 2}
	oidECDSAWithSHA512     = []int{1, 2, 840, 10045, 4, 3, 4}

	oidContentType          = []int{1, 2, 840, 113549, 1, 9, 3}
	oidMessageDigest        = []int{1, 2, 840, 113549, 1, 9, 4}
	oidSigningCertificateV2 = []int{1, 2, 840, 113549, 1, 9, 16, 2, 47}
	oidSignatureTimeStampToken = []int{1, 2, 840, 113549, 1, 9, 16, 2, 14}
)
