package http

import (
	"errors"
	"io"
	"net/http"
	"strings"
)

// maxUploadSize bounds the whole multipart body; slip photos from phone
// cameras stay well under this.
const maxUploadSize = 10 << 20

var errNoSlipFile = errors.New("no slip file attached")

// slipFile is an uploaded slip image before base64 encoding.
type slipFile struct {
	Name     string
	MIMEType string
	Data     []byte
}

// donationForm holds the raw submitted fields. Values are sanitized but
// not yet validated; the handler applies the checks in submission order.
type donationForm struct {
	Certified    bool
	FullName     string
	RawAmount    string
	RawDate      string
	TaxDeduction bool
	NationalID   string
	Slip         *slipFile
}

// parseDonationForm reads the multipart submission. A missing slip file
// is not an error here; the handler reports it in validation order.
func parseDonationForm(r *http.Request) (donationForm, error) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		return donationForm{}, err
	}

	form := donationForm{
		Certified:    parseCheckbox(r.FormValue("certified")),
		FullName:     sanitizeInput(r.FormValue("fullName")),
		RawAmount:    strings.TrimSpace(r.FormValue("amount")),
		RawDate:      strings.TrimSpace(r.FormValue("date")),
		TaxDeduction: parseCheckbox(r.FormValue("taxDeduction")),
		NationalID:   sanitizeInput(r.FormValue("nationalId")),
	}

	slip, err := readSlipFile(r, "slip")
	if err != nil && !errors.Is(err, errNoSlipFile) {
		return donationForm{}, err
	}
	form.Slip = slip

	return form, nil
}

// readSlipFile extracts the uploaded file from the named multipart field.
func readSlipFile(r *http.Request, field string) (*slipFile, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, errNoSlipFile
		}
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadSize))
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errNoSlipFile
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	return &slipFile{
		Name:     header.Filename,
		MIMEType: mimeType,
		Data:     data,
	}, nil
}

// parseCheckbox interprets the values HTML checkboxes and HTMX send.
func parseCheckbox(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "on", "true", "1", "yes":
		return true
	default:
		return false
	}
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
