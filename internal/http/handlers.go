package http

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"tamboon/internal/core"
	"tamboon/internal/export"
)

// Validation messages, shown one at a time in submission order.
const (
	msgNotCertified  = "กรุณายืนยันความถูกต้องของข้อมูล"
	msgNoSlip        = "กรุณาอัปโหลดสลิปการโอนเงิน"
	msgBadAmount     = "กรุณากรอกจำนวนเงินให้ถูกต้อง"
	msgBadNationalID = "กรุณากรอกเลขบัตรประชาชน 13 หลักให้ถูกต้อง"
	msgBadDate       = "กรุณากรอกวันที่ให้ถูกต้อง"
	msgSaveFailed    = "ไม่สามารถบันทึกข้อมูลได้ กรุณาลองใหม่อีกครั้ง"

	warnNoAmount   = "ไม่สามารถอ่านจำนวนเงินจากสลิปได้ กรุณากรอกด้วยตนเอง"
	warnScanFailed = "ไม่สามารถอ่านข้อมูลจากสลิปได้ กรุณากรอกข้อมูลด้วยตนเอง"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", "url", r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	data := struct {
		Today       string
		ScanEnabled bool
	}{
		Today:       core.Today().String(),
		ScanEnabled: s.scanner != nil,
	}

	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Index template execution failed", "error", err, "template", "index.html")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// handleStats renders the two stat cards: all-time total and today's total.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	donations, err := s.donations(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Donation list error", "error", err)
		_, _ = w.Write([]byte(`<section id="stats" class="stats"><div class="error">Error: ` +
			template.HTMLEscapeString(err.Error()) + `</div></section>`))
		return
	}

	totals := core.Summarize(donations, core.Today())
	data := struct {
		Total string
		Today string
	}{
		Total: formatTHB(totals.All),
		Today: formatTHB(totals.Today),
	}

	if s.templates == nil {
		_, _ = w.Write([]byte(`<section id="stats" class="stats"><div class="placeholder">` +
			template.HTMLEscapeString(data.Total) + ` / ` + template.HTMLEscapeString(data.Today) + `</div></section>`))
		return
	}
	if err := s.templates.ExecuteTemplate(w, "stats.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution error", "error", err, "template", "stats.html")
		_, _ = w.Write([]byte(`<section id="stats" class="stats"><div class="error">` + msgSaveFailed + `</div></section>`))
	}
}

// handleRecent renders the ten most recent donations.
func (s *Server) handleRecent(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	donations, err := s.donations(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Donation list error", "error", err)
		_, _ = w.Write([]byte(`<section id="recent" class="recent"><div class="error">Error: ` +
			template.HTMLEscapeString(err.Error()) + `</div></section>`))
		return
	}

	type row struct {
		FullName     string
		Amount       string
		Date         string
		TaxDeduction bool
	}
	data := struct {
		Rows []row
	}{}
	for _, d := range core.Recent(donations, 10) {
		data.Rows = append(data.Rows, row{
			FullName:     d.FullName,
			Amount:       formatBahtGrouped(d.Amount),
			Date:         d.Date.String(),
			TaxDeduction: d.TaxDeduction,
		})
	}

	if s.templates == nil {
		_, _ = w.Write([]byte(`<section id="recent" class="recent"><div class="placeholder">` +
			strconv.Itoa(len(data.Rows)) + ` รายการ</div></section>`))
		return
	}
	if err := s.templates.ExecuteTemplate(w, "recent.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution error", "error", err, "template", "recent.html")
		_, _ = w.Write([]byte(`<section id="recent" class="recent"><div class="error">` + msgSaveFailed + `</div></section>`))
	}
}

// handleCreateDonation accepts the multipart submission. The checks run
// in the form's fixed order and only the first failure is reported.
func (s *Server) handleCreateDonation(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	form, err := parseDonationForm(r)
	if err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "error", err, "method", r.Method, "url", r.URL.Path)
		w.WriteHeader(http.StatusBadRequest)
		writeError(w, "รูปแบบคำขอไม่ถูกต้อง")
		return
	}

	if !form.Certified {
		w.WriteHeader(http.StatusUnprocessableEntity)
		writeError(w, msgNotCertified)
		return
	}
	if form.Slip == nil {
		w.WriteHeader(http.StatusUnprocessableEntity)
		writeError(w, msgNoSlip)
		return
	}
	satang, err := core.ParseDecimalToSatang(form.RawAmount)
	if err != nil {
		w.WriteHeader(http.StatusUnprocessableEntity)
		writeError(w, msgBadAmount)
		return
	}
	if form.TaxDeduction && !core.ValidNationalID(form.NationalID) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		writeError(w, msgBadNationalID)
		return
	}

	date := core.Today()
	if form.RawDate != "" {
		date, err = core.ParseDate(form.RawDate)
		if err != nil {
			w.WriteHeader(http.StatusUnprocessableEntity)
			writeError(w, msgBadDate)
			return
		}
	}

	nationalID := ""
	if form.TaxDeduction {
		nationalID = form.NationalID
	}

	submission := core.NewDonation{
		FullName:     form.FullName,
		Amount:       core.Money{Satang: satang},
		Date:         date,
		TaxDeduction: form.TaxDeduction,
		NationalID:   nationalID,
		Slip: core.SlipUpload{
			Base64:   base64.StdEncoding.EncodeToString(form.Slip.Data),
			MIMEType: form.Slip.MIMEType,
			Name:     core.SlipFileName(form.FullName, form.RawAmount, form.TaxDeduction, date, time.Now(), form.Slip.Name),
		},
	}
	if err := submission.Validate(); err != nil {
		w.WriteHeader(http.StatusUnprocessableEntity)
		writeError(w, err.Error())
		return
	}

	saved, err := s.appender.Append(r.Context(), submission)
	if err != nil {
		slog.ErrorContext(r.Context(), "Donation append error",
			"error", err,
			"full_name", submission.FullName,
			"amount_satang", submission.Amount.Satang)
		w.WriteHeader(http.StatusInternalServerError)
		writeError(w, msgSaveFailed)
		return
	}

	s.listCache.Invalidate()
	w.Header().Set("HX-Trigger", `{"donation:created": {}}`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`<div class="success">บันทึกการบริจาคเรียบร้อยแล้ว (#` + template.HTMLEscapeString(saved.ID) + `): ` +
		template.HTMLEscapeString(saved.FullName) +
		` ฿` + template.HTMLEscapeString(saved.Amount.DecimalString()) + `</div>`))
}

// scanResponse is the JSON shape for the slip OCR pre-fill. A nil amount
// or date means the field stays editable and empty.
type scanResponse struct {
	Amount  *float64 `json:"amount"`
	Date    *string  `json:"date"`
	Locked  bool     `json:"locked"`
	Warning string   `json:"warning,omitempty"`
}

// handleScanSlip runs OCR on the uploaded slip and returns the extracted
// amount and date. Extraction failure is a warning, never an error; the
// form falls back to manual entry.
func (s *Server) handleScanSlip(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(scanResponse{Warning: warnScanFailed})
		return
	}

	slip, err := readSlipFile(r, "slip")
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(scanResponse{Warning: msgNoSlip})
		return
	}

	if s.scanner == nil {
		_ = json.NewEncoder(w).Encode(scanResponse{Warning: warnScanFailed})
		return
	}

	data, err := s.scanner.ScanSlip(r.Context(), slip.Data, slip.MIMEType)
	if err != nil {
		slog.WarnContext(r.Context(), "Slip scan failed", "error", err, "file", slip.Name)
		_ = json.NewEncoder(w).Encode(scanResponse{Warning: warnScanFailed})
		return
	}

	resp := scanResponse{Amount: data.Amount, Date: data.Date}
	if data.Amount != nil {
		resp.Locked = true
	} else {
		resp.Warning = warnNoAmount
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// handleExportCSV streams the full donation list as a CSV download.
func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	donations, err := s.donations(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Donation list error", "error", err)
		http.Error(w, "could not load donations", http.StatusInternalServerError)
		return
	}

	body, err := export.DonationsCSV(donations)
	if err != nil {
		if errors.Is(err, export.ErrNoData) {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			_, _ = w.Write([]byte("No data to export.\n"))
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.FileName(time.Now())+`"`)
	_, _ = w.Write([]byte(body))
}

func writeError(w http.ResponseWriter, msg string) {
	_, _ = w.Write([]byte(`<div class="error">` + template.HTMLEscapeString(msg) + `</div>`))
}

// formatTHB renders a money value with the baht sign and two decimals,
// the way the stat cards show it.
func formatTHB(m core.Money) string {
	return "฿" + formatBahtGrouped(m)
}

// formatBahtGrouped renders baht with thousand separators and two
// decimals, e.g. 1,234.50.
func formatBahtGrouped(m core.Money) string {
	satang := m.Satang
	neg := satang < 0
	if neg {
		satang = -satang
	}
	baht := satang / 100
	rem := satang % 100

	digits := strconv.FormatInt(baht, 10)
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}

	out := b.String() + "." + twoDigitString(rem)
	if neg {
		return "-" + out
	}
	return out
}

func twoDigitString(n int64) string {
	if n < 10 {
		return "0" + strconv.FormatInt(n, 10)
	}
	return strconv.FormatInt(n, 10)
}
