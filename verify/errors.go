package verify

import "errors"

var (
	ErrByteRangeNotFound = errors.New("verify: /ByteRange not found near signature")
	ErrContentsNotFound  = errors.New("verify: /Contents not found near signature")
	ErrInvalidByteRange  = errors.New("verify: malformed /ByteRange")
	ErrSignatureTooSmall = errors.New("verify: decoded signature is implausibly small")
)
