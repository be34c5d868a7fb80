package google

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"tamboon/internal/core"
	ports "tamboon/internal/sheets"

	gdrive "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// Client persists donations to a Google Sheets spreadsheet and stores
// slip images in a Google Drive folder.
type Client struct {
	svc            *gsheet.Service
	drive          *gdrive.Service
	spreadsheetID  string
	donationsSheet string
	driveFolderID  string
}

// Ensure interface conformance
var (
	_ ports.DonationAppender = (*Client)(nil)
	_ ports.DonationLister   = (*Client)(nil)
)

// NewFromEnv creates a Sheets+Drive client using environment variables.
// Required: GOOGLE_SPREADSHEET_ID.
// Optional: GOOGLE_SHEET_NAME (default "Donations"),
// GOOGLE_DRIVE_FOLDER_ID (slips land in the Drive root when empty),
// service account credentials via GOOGLE_SERVICE_ACCOUNT_JSON,
// GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS.
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	sheetName := strings.TrimSpace(os.Getenv("GOOGLE_SHEET_NAME"))
	if sheetName == "" {
		sheetName = "Donations"
	}

	credentialsJSON, err := credentialsFromEnv(ctx)
	if err != nil {
		return nil, err
	}

	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope, gdrive.DriveFileScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	driveSvc, err := gdrive.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gdrive.DriveFileScope))
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}

	return &Client{
		svc:            svc,
		drive:          driveSvc,
		spreadsheetID:  spreadsheetID,
		donationsSheet: sheetName,
		driveFolderID:  strings.TrimSpace(os.Getenv("GOOGLE_DRIVE_FOLDER_ID")),
	}, nil
}

// credentialsFromEnv resolves service account JSON from the environment,
// in the same precedence order the rest of our Google tooling uses.
func credentialsFromEnv(ctx context.Context) ([]byte, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	switch {
	case serviceAccountJSON != "":
		slog.InfoContext(ctx, "Using inline service account credentials")
		return []byte(serviceAccountJSON), nil
	case serviceAccountFile != "":
		data, err := os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		slog.InfoContext(ctx, "Read service account credentials", "path", serviceAccountFile, "size", len(data))
		return data, nil
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}
}

// Append uploads the slip image to Drive, then appends the donation row.
// The returned record carries the generated ID and the stored slip link.
func (c *Client) Append(ctx context.Context, n core.NewDonation) (core.Donation, error) {
	if err := n.Validate(); err != nil {
		return core.Donation{}, fmt.Errorf("%w: %w", ports.ErrAdd, err)
	}
	if c.svc == nil || c.drive == nil {
		return core.Donation{}, fmt.Errorf("%w: google services not initialized", ports.ErrAdd)
	}

	slipURL, err := c.uploadSlip(ctx, n.Slip)
	if err != nil {
		return core.Donation{}, fmt.Errorf("%w: %w", ports.ErrAdd, err)
	}

	d := core.Donation{
		ID:           newDonationID(),
		FullName:     n.FullName,
		Amount:       n.Amount,
		Date:         n.Date,
		TaxDeduction: n.TaxDeduction,
		NationalID:   n.NationalID,
		SlipURL:      slipURL,
	}

	vr := &gsheet.ValueRange{Values: [][]any{donationRow(d)}}
	rng := fmt.Sprintf("%s!A:G", c.donationsSheet)
	_, err = c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return core.Donation{}, fmt.Errorf("%w: append row to %s: %w", ports.ErrAdd, c.donationsSheet, err)
	}

	slog.InfoContext(ctx, "Donation appended to sheet",
		"id", d.ID,
		"sheet", c.donationsSheet,
		"amount_satang", d.Amount.Satang,
		"date", d.Date.String())

	return d, nil
}

// uploadSlip stores the slip bytes as a Drive file and returns its link.
func (c *Client) uploadSlip(ctx context.Context, slip core.SlipUpload) (string, error) {
	data, err := base64.StdEncoding.DecodeString(slip.Base64)
	if err != nil {
		return "", fmt.Errorf("decode slip payload: %w", err)
	}

	meta := &gdrive.File{Name: slip.Name}
	if c.driveFolderID != "" {
		meta.Parents = []string{c.driveFolderID}
	}

	f, err := c.drive.Files.Create(meta).
		Media(bytes.NewReader(data), googleapi.ContentType(slip.MIMEType)).
		Fields("id", "webViewLink").
		Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("upload slip %s: %w", slip.Name, err)
	}
	if f.WebViewLink != "" {
		return f.WebViewLink, nil
	}
	return "https://drive.google.com/file/d/" + f.Id + "/view", nil
}

// ListDonations reads every donation row and returns records sorted by
// donation date descending.
func (c *Client) ListDonations(ctx context.Context) ([]core.Donation, error) {
	if c.svc == nil {
		return nil, fmt.Errorf("%w: sheets service not initialized", ports.ErrFetch)
	}
	rng := fmt.Sprintf("%s!A2:G", c.donationsSheet)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ports.ErrFetch, rng, err)
	}

	out := make([]core.Donation, 0, len(resp.Values))
	for _, row := range resp.Values {
		d, ok := parseDonationRow(toStrings(row))
		if !ok {
			continue
		}
		out = append(out, d)
	}
	core.SortByDateDesc(out)
	return out, nil
}

func toStrings(in []interface{}) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}

// newDonationID generates a short opaque record identifier.
func newDonationID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("don_%d", time.Now().UnixNano())
	}
	return "don_" + hex.EncodeToString(b)
}
