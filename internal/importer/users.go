package importer

import (
	"io"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"consignparts/internal/model"
)

const defaultImportPassword = "changeme"

// UserFromRow normalizes one header-keyed CSV row into a User.
// Rows missing any identity field (name, code, email) are skipped:
// the second return value reports whether the row was usable.
func (im *Importer) UserFromRow(row map[string]string) (model.User, bool) {
	name, nameOK := Clean(row["name"], false)
	code, codeOK := Clean(row["code"], false)
	email, emailOK := Clean(row["email"], false)
	if !nameOK || !codeOK || !emailOK {
		return model.User{}, false
	}

	createdAt := time.Now().UTC()
	if t := im.ParseDate(row["created_at"]); t != nil {
		createdAt = *t
	}

	phone, _ := Clean(row["phone_number"], false)
	addr1, _ := Clean(row["address_line1"], false)
	addr2, _ := Clean(row["address_line2"], false)
	city, _ := Clean(row["city"], false)
	state, _ := Clean(row["state"], false)
	zip, _ := Clean(row["zip_code"], false)

	return model.User{
		Name:         name,
		Code:         code,
		Email:        email,
		PasswordHash: normalizePassword(row["password_hash"]),
		IsAdmin:      strings.TrimSpace(row["is_admin"]) == "1",
		CreatedAt:    createdAt,
		PhoneNumber:  phone,
		AddressLine1: addr1,
		AddressLine2: addr2,
		City:         city,
		State:        state,
		ZipCode:      zip,
	}, true
}

// normalizePassword accepts either an already-hashed credential or a
// plaintext temporary password, hashing the latter. Empty passwords
// fall back to a default that the consigner must reset.
func normalizePassword(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "$2a$") || strings.HasPrefix(raw, "$2b$") || strings.HasPrefix(raw, "$2y$") {
		return raw
	}
	if raw == "" {
		raw = defaultImportPassword
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.DefaultCost)
	if err != nil {
		return ""
	}
	return string(hashed)
}

// ReadUsers parses a header-driven users CSV. Rows without identity
// fields are skipped; the skip count is returned alongside.
func (im *Importer) ReadUsers(r io.Reader) ([]model.User, int, error) {
	rows, err := readRows(r)
	if err != nil {
		return nil, 0, err
	}
	users := make([]model.User, 0, len(rows))
	skipped := 0
	for _, row := range rows {
		user, ok := im.UserFromRow(row)
		if !ok {
			skipped++
			continue
		}
		users = append(users, user)
	}
	return users, skipped, nil
}
