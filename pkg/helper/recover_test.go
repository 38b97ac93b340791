package helper

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func panics() (err error) {
	defer RecoverPanic("test", &err)
	var m map[string]int
	m["boom"]++
	return nil
}

func TestRecoverPanicStoresError(t *testing.T) {
	err := panics()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "internal error in test")
}

func TestRecoverPanicWithoutPanic(t *testing.T) {
	err := func() (err error) {
		defer RecoverPanic("test", &err)
		return nil
	}()

	assert.NoError(t, err)
}
