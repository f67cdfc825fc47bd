package validators

import (
	"bytes"
	"mime/multipart"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmailValidator(t *testing.T) {
	assert.NoError(t, EmailValidator("user@example.com"))
	assert.ErrorIs(t, EmailValidator(""), ErrEmailEmpty)
	assert.ErrorIs(t, EmailValidator("not-an-email"), ErrEmailInvalid)
}

func TestPasswordValidator(t *testing.T) {
	assert.NoError(t, PasswordValidator("longenough1"))
	assert.NoError(t, PasswordValidator("  padded ok  "))
	assert.ErrorIs(t, PasswordValidator(""), ErrPasswordEmpty)
	assert.ErrorIs(t, PasswordValidator("        "), ErrPasswordEmpty)
	assert.ErrorIs(t, PasswordValidator("short"), ErrPasswordTooShort)
	assert.ErrorIs(t, PasswordValidator(string(make([]byte, 300))), ErrPasswordTooLong)
}

func TestUsernameValidator(t *testing.T) {
	assert.NoError(t, UsernameValidator("alice_01"))
	assert.NoError(t, UsernameValidator("a.b-c"))
	assert.ErrorIs(t, UsernameValidator(""), ErrUsernameEmpty)
	assert.ErrorIs(t, UsernameValidator("ab"), ErrUsernameTooShort)
	assert.ErrorIs(t, UsernameValidator("has space"), ErrUsernameInvalid)
	assert.ErrorIs(t, UsernameValidator("has@sign"), ErrUsernameInvalid)
}

func makeImagePart(t *testing.T, contentType string, payload []byte) *multipart.FileHeader {
	t.Helper()

	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)

	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", `form-data; name="avatar"; filename="avatar.png"`)
	h.Set("Content-Type", contentType)

	pw, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = pw.Write(payload)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	r := multipart.NewReader(buf, mw.Boundary())
	form, err := r.ReadForm(1 << 20)
	require.NoError(t, err)

	return form.File["avatar"][0]
}

func TestImageValidatorAcceptsPNG(t *testing.T) {
	png := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 13, 'I', 'H', 'D', 'R'}
	fh := makeImagePart(t, "image/png", png)

	code, f, err := ImageValidator(fh)
	require.NoError(t, err)
	require.Zero(t, code)
	f.Close()
}

func TestImageValidatorRejectsSpoofedType(t *testing.T) {
	// Declared as an image but the bytes are plain text
	fh := makeImagePart(t, "image/png", []byte("#!/bin/sh\nrm -rf /"))

	_, _, err := ImageValidator(fh)
	assert.ErrorIs(t, err, ErrImageTypeUnsupported)
}

func TestImageValidatorRejectsWrongHeader(t *testing.T) {
	fh := makeImagePart(t, "video/mp4", []byte("whatever"))

	_, _, err := ImageValidator(fh)
	assert.ErrorIs(t, err, ErrImageTypeUnsupported)
}

func TestImageValidatorNilFile(t *testing.T) {
	_, _, err := ImageValidator(nil)
	assert.ErrorIs(t, err, ErrNoImage)
}
