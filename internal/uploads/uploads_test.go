package uploads

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testUploader() *Uploader {
	return NewUploader(nil, "test-bucket", 5*1024*1024, 4)
}

func TestValidateAcceptsImageUnderLimit(t *testing.T) {
	u := testUploader()
	assert.NoError(t, u.Validate("image/jpeg", 1024, 0))
	assert.NoError(t, u.Validate("image/png", 5*1024*1024, 3))
}

func TestValidateRejectsNonImage(t *testing.T) {
	u := testUploader()
	err := u.Validate("application/pdf", 1024, 0)
	assert.ErrorIs(t, err, ErrNotAnImage)
}

func TestValidateRejectsOversized(t *testing.T) {
	u := testUploader()
	err := u.Validate("image/jpeg", 5*1024*1024+1, 0)
	assert.ErrorIs(t, err, ErrImageTooLarge)
}

func TestValidateRejectsFifthImage(t *testing.T) {
	u := testUploader()
	err := u.Validate("image/jpeg", 1024, 4)
	assert.ErrorIs(t, err, ErrTooManyFiles)
}
