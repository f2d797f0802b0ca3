package web

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"turnical/internal/calendar"
	"turnical/internal/extract"
	"turnical/internal/grid"
	appLog "turnical/internal/log"
	"turnical/internal/store"
)

// uploadData feeds the upload page template.
type uploadData struct {
	Error string
}

// resultData feeds the result page template.
type resultData struct {
	Period   string
	DayNums  []int
	Original [][]string
	Rows     [][]string
	People   []personLink
}

// personLink pairs a display name with its path-escaped download segment.
type personLink struct {
	Name    string
	Escaped string
}

// swapData feeds the shift-swap page template.
type swapData struct {
	Period   string
	People   []string
	Days     int
	Error    string
	Searched bool
	Matches  []string
	Day      string
	Request  string
}

func (s *Server) handleUploadPage(w http.ResponseWriter, _ *http.Request) {
	s.render(w, "upload.html", uploadData{})
}

// handleUploadPost runs the whole pipeline for one uploaded schedule:
// extract -> detect period -> normalize -> synthesize calendars -> store,
// then renders the result page. Document-level failures surface as a single
// message on the upload page.
func (s *Server) handleUploadPost(w http.ResponseWriter, r *http.Request) {
	maxBytes := int64(s.cfg.MaxUploadMB) << 20
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	if err := r.ParseMultipartForm(maxBytes); err != nil {
		s.renderUploadError(w, http.StatusBadRequest, "File mancante o troppo grande")
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("file")
	if err != nil {
		s.renderUploadError(w, http.StatusBadRequest, "Nessun file selezionato")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.renderUploadError(w, http.StatusBadRequest, "Lettura del file fallita")
		return
	}

	entry, err := s.process(header.Filename, data)
	if err != nil {
		appLog.Error("upload processing failed", err, "file", header.Filename)
		s.renderUploadError(w, http.StatusUnprocessableEntity, uploadErrorMessage(err))
		return
	}

	id := s.store.Put(entry)
	s.setSession(w, id)
	s.render(w, "result.html", s.resultData(entry))
}

// process is the synchronous pipeline for one document. It holds no state
// between runs; concurrent uploads only meet again inside the store.
func (s *Server) process(filename string, data []byte) (*store.Entry, error) {
	table, err := extract.FromUpload(filename, data)
	if err != nil {
		return nil, err
	}

	period, err := grid.DetectPeriod(table[0])
	if err != nil {
		return nil, err
	}

	g, err := grid.Normalize(table, period)
	if err != nil {
		return nil, err
	}

	artifacts, err := calendar.Synthesize(g, period, s.loc)
	if err != nil {
		return nil, err
	}

	return &store.Entry{
		Period:        period,
		Grid:          g,
		OriginalTable: table,
		Artifacts:     artifacts,
	}, nil
}

func (s *Server) handleResult(w http.ResponseWriter, r *http.Request) {
	entry, _ := s.session(r)
	if entry == nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	s.render(w, "result.html", s.resultData(entry))
}

func (s *Server) resultData(e *store.Entry) resultData {
	days := make([]int, e.Period.Days)
	for i := range days {
		days[i] = i + 1
	}
	people := make([]personLink, 0, len(e.Grid.Names()))
	for _, name := range e.Grid.Names() {
		people = append(people, personLink{Name: name, Escaped: url.PathEscape(name)})
	}
	return resultData{
		Period:   e.Period.String(),
		DayNums:  days,
		Original: e.OriginalTable,
		Rows:     e.Grid.Rows(),
		People:   people,
	}
}

func (s *Server) handleSwapPage(w http.ResponseWriter, r *http.Request) {
	entry, _ := s.session(r)
	if entry == nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	s.render(w, "cambio_turno.html", swapData{
		Period: entry.Period.String(),
		People: entry.Grid.Names(),
		Days:   entry.Period.Days,
	})
}

func (s *Server) handleSwapPost(w http.ResponseWriter, r *http.Request) {
	entry, _ := s.session(r)
	if entry == nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	requester := r.FormValue("nome")
	day := r.FormValue("giorno")
	timeStr := r.FormValue("ora")
	durLabel := r.FormValue("durata")

	data := swapData{
		Period:  entry.Period.String(),
		People:  entry.Grid.Names(),
		Days:    entry.Period.Days,
		Day:     day,
		Request: fmt.Sprintf("%s (%s)", timeStr, durLabel),
	}

	matches, err := grid.MatchSwap(entry.Grid, requester, day, timeStr, durLabel)
	if err != nil {
		if errors.Is(err, grid.ErrInvalidQuery) {
			data.Error = fmt.Sprintf("Giorno non valido: deve essere un numero tra 1 e %d", entry.Period.Days)
		} else {
			data.Error = "Errore durante la ricerca"
			appLog.Error("swap search failed", err)
		}
		s.render(w, "cambio_turno.html", data)
		return
	}

	data.Searched = true
	data.Matches = matches
	s.render(w, "cambio_turno.html", data)
}

// handleDownload streams one person's ICS file from the current session.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	entry, _ := s.session(r)
	if entry == nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	name, err := url.PathUnescape(r.PathValue("name"))
	if err != nil {
		http.Error(w, "bad name", http.StatusBadRequest)
		return
	}

	art, ok := entry.Artifacts[name]
	if !ok {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", art.Filename))
	_, _ = w.Write(art.Body)
}

func (s *Server) renderUploadError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.tmpl.ExecuteTemplate(w, "upload.html", uploadData{Error: msg}); err != nil {
		appLog.Error("template render failed", err, "template", "upload.html")
	}
}

// uploadErrorMessage maps pipeline failures to user-facing text. Anything
// unrecognized gets a generic message; details stay in the log.
func uploadErrorMessage(err error) string {
	switch {
	case errors.Is(err, grid.ErrEmptyDocument):
		return "Nessuna tabella trovata nel file"
	case errors.Is(err, grid.ErrPeriodNotFound):
		return "Impossibile determinare mese/anno dalla griglia"
	default:
		return "Errore durante l'elaborazione del file"
	}
}
