package api

import "time"

const (
	RequestTimeout          = 5 * time.Second
	RequestRetryMinWaitTime = 1 * time.Second
	RequestRetryMaxWaitTime = 10 * time.Second

	// Session archives can be large, uploads get their own budget
	UploadTimeout = 120 * time.Second
)
