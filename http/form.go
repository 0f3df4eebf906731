package http

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/language"

	"drybean/ml"
	"drybean/presenter"
)

//go:embed templates/form.html
var templateFS embed.FS

var formTemplate = template.Must(template.ParseFS(templateFS, "templates/form.html"))

var languages = language.NewMatcher([]language.Tag{
	language.English,
	language.German,
	language.French,
	language.Spanish,
	language.Turkish,
})

type formField struct {
	Key   string
	Label string
	Value string
	Min   string
	Step  string
}

type formPage struct {
	Fields  []formField
	Result  template.HTML
	Error   string
	Summary []presenter.Row
}

// RegisterFormHandlers 注册表单页面
func (h *Handler) RegisterFormHandlers(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", h.handleForm)
	mux.HandleFunc("POST /predict", h.handleFormPredict)
	mux.HandleFunc("POST /reset", h.handleFormReset)
}

func (h *Handler) handleForm(w http.ResponseWriter, r *http.Request) {
	sess := h.deps.Sessions.Load(r)

	page := formPage{Fields: fieldsFromVector(sess.Values)}
	if sess.Prediction != nil {
		result, err := presenter.HTML(sess.Prediction.Label)
		if err != nil {
			h.deps.Logger.Error("failed to render result", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to render result")
			return
		}
		page.Result = result
		page.Summary = presenter.Summary(sess.Values, requestLanguage(r))
	}
	h.render(w, http.StatusOK, page)
}

func (h *Handler) handleFormPredict(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form")
		return
	}

	sess := h.deps.Sessions.Load(r)
	v, raw, err := parseForm(r)
	if err != nil {
		h.render(w, http.StatusBadRequest, formPage{Fields: raw, Error: err.Error()})
		return
	}

	p, err := h.predict(r.Context(), SourceForm, sess.ID, v)
	if err != nil {
		h.render(w, statusFor(err), formPage{Fields: raw, Error: err.Error()})
		return
	}

	sess.Values = v
	sess.Prediction = &p
	h.deps.Sessions.Save(w, sess)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) handleFormReset(w http.ResponseWriter, r *http.Request) {
	sess := h.deps.Sessions.Load(r)
	h.deps.Sessions.Save(w, Session{ID: sess.ID})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) render(w http.ResponseWriter, status int, page formPage) {
	var buf bytes.Buffer
	if err := formTemplate.Execute(&buf, page); err != nil {
		h.deps.Logger.Error("failed to render form", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to render form")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

// parseForm reads the sixteen fields. Empty fields take the default. The raw values are
// returned so a rejected form can be shown again as typed.
func parseForm(r *http.Request) (ml.FeatureVector, []formField, error) {
	var v ml.FeatureVector
	fields := fieldsFromVector(v)
	var firstErr error
	for i, f := range ml.Features() {
		s := strings.TrimSpace(r.PostFormValue(f.Key))
		fields[i].Value = s
		if s == "" {
			v[i] = ml.FeatureDefault
			fields[i].Value = formatFloat(ml.FeatureDefault)
			continue
		}
		value, err := strconv.ParseFloat(s, 64)
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("%w: %s must be a number", ml.ErrInvalidInput, f.Label)
			}
			continue
		}
		v[i] = value
	}
	if firstErr != nil {
		return v, fields, firstErr
	}
	return v, fields, v.Validate()
}

func fieldsFromVector(v ml.FeatureVector) []formField {
	fields := make([]formField, ml.FeatureCount)
	for i, f := range ml.Features() {
		fields[i] = formField{
			Key:   f.Key,
			Label: f.Label,
			Value: formatFloat(v[i]),
			Min:   formatFloat(ml.FeatureMin),
			Step:  formatFloat(ml.FeatureStep),
		}
	}
	return fields
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func requestLanguage(r *http.Request) language.Tag {
	tag, _ := language.MatchStrings(languages, r.Header.Get("Accept-Language"))
	return tag
}
