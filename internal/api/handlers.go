package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	proofstore "github.com/alnah/go-proofstore"
	"github.com/alnah/go-proofstore/internal/store"
)

func (s *Server) handleTypes(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"types": store.ElementTypes()})
}

func (s *Server) handleFormats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"formats": proofstore.FormatNames()})
}

func (s *Server) handleRels(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"rels": store.LinkRelations()})
}

// elementPayload is the request body for element create and update. Pointer
// fields distinguish absent keys from empty values on update.
type elementPayload struct {
	Type   *string  `json:"type"`
	Title  *string  `json:"title"`
	Body   *string  `json:"body"`
	Format *string  `json:"format"`
	Tags   []string `json:"tags"`
}

func (s *Server) handleElementCreate(w http.ResponseWriter, r *http.Request) {
	var in elementPayload
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	p := store.CreateElementParams{Tags: in.Tags}
	if in.Type != nil {
		p.Type = strings.TrimSpace(*in.Type)
	}
	if in.Title != nil {
		p.Title = strings.TrimSpace(*in.Title)
	}
	if in.Body != nil {
		p.Body = strings.TrimRight(*in.Body, " \t\r\n")
	}
	if in.Format != nil {
		p.Format = strings.TrimSpace(*in.Format)
	}

	id, err := s.store.CreateElement(r.Context(), p)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *Server) handleElementList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := store.ListElementsFilter{
		Type:        q.Get("type"),
		Format:      q.Get("format"),
		Tag:         q.Get("tag"),
		Query:       q.Get("q"),
		IncludeTags: boolArg(q.Get("include_tags")),
	}

	var err error
	if f.Limit, err = intArg(q.Get("limit")); err != nil {
		writeError(w, err)
		return
	}
	if f.Offset, err = intArg(q.Get("offset")); err != nil {
		writeError(w, err)
		return
	}

	elements, err := s.store.ListElements(r.Context(), f)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]store.Element{"elements": elements})
}

func (s *Server) handleElementGet(w http.ResponseWriter, r *http.Request) {
	e, err := s.store.GetElement(r.Context(), r.PathValue("id"), true)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			notFound(w)
			return
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (s *Server) handleElementUpdate(w http.ResponseWriter, r *http.Request) {
	var in elementPayload
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	p := store.UpdateElementParams{Tags: in.Tags}
	if in.Type != nil {
		v := strings.TrimSpace(*in.Type)
		p.Type = &v
	}
	if in.Title != nil {
		v := strings.TrimSpace(*in.Title)
		p.Title = &v
	}
	if in.Body != nil {
		v := strings.TrimRight(*in.Body, " \t\r\n")
		p.Body = &v
	}
	if in.Format != nil {
		v := strings.TrimSpace(*in.Format)
		p.Format = &v
	}

	id := r.PathValue("id")
	if err := s.store.UpdateElement(r.Context(), id, p); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": id})
}

func (s *Server) handleElementDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.store.DeleteElement(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": id})
}

// renderResponse carries a rendered element body and any typesetting
// warnings collected along the way.
type renderResponse struct {
	ID       string   `json:"id"`
	Format   string   `json:"format"`
	HTML     string   `json:"html"`
	Warnings []string `json:"warnings,omitempty"`
}

func (s *Server) handleElementRender(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	e, err := s.store.GetElement(r.Context(), id, false)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			notFound(w)
			return
		}
		writeError(w, err)
		return
	}

	renderer := s.renderer
	if boolArg(r.URL.Query().Get("math")) {
		renderer = proofstore.NewRenderer(proofstore.WithHTMLMath())
	}

	var target proofstore.Target
	unit := proofstore.Unit{Format: proofstore.ParseFormat(e.Format), Body: e.Body}
	if err := renderer.Render(r.Context(), unit, &target); err != nil {
		writeError(w, err)
		return
	}

	resp := renderResponse{ID: id, Format: e.Format, HTML: target.HTML()}
	for _, warning := range target.Warnings() {
		resp.Warnings = append(resp.Warnings, warning.Err.Error()+": "+warning.Span)
	}
	writeJSON(w, http.StatusOK, resp)
}

// tagsPayload is the request body for tag mutations. A nil Tags on DELETE
// clears all tags.
type tagsPayload struct {
	Tags []string `json:"tags"`
}

func (s *Server) respondTags(w http.ResponseWriter, r *http.Request, id string) {
	tags, err := s.store.ListTags(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "tags": tags})
}

func (s *Server) handleTagsGet(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := s.store.GetElement(r.Context(), id, false); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			notFound(w)
			return
		}
		writeError(w, err)
		return
	}
	s.respondTags(w, r, id)
}

func (s *Server) handleTagsSet(w http.ResponseWriter, r *http.Request) {
	var in tagsPayload
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}
	if in.Tags == nil {
		writeError(w, errors.New("missing 'tags' list"))
		return
	}

	id := r.PathValue("id")
	if err := s.store.SetTags(r.Context(), id, in.Tags); err != nil {
		writeError(w, err)
		return
	}
	s.respondTags(w, r, id)
}

func (s *Server) handleTagsAdd(w http.ResponseWriter, r *http.Request) {
	var in tagsPayload
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}
	if in.Tags == nil {
		writeError(w, errors.New("missing 'tags' list"))
		return
	}

	id := r.PathValue("id")
	if _, err := s.store.AddTags(r.Context(), id, in.Tags); err != nil {
		writeError(w, err)
		return
	}
	s.respondTags(w, r, id)
}

func (s *Server) handleTagsDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	// An absent or empty body clears all tags.
	var in tagsPayload
	_ = decodeJSON(r, &in)

	var err error
	if in.Tags != nil {
		_, err = s.store.RemoveTags(r.Context(), id, in.Tags)
	} else {
		_, err = s.store.ClearTags(r.Context(), id)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	s.respondTags(w, r, id)
}

// linkPayload is the request body for link create and update.
type linkPayload struct {
	SrcID *string `json:"src_id"`
	DstID *string `json:"dst_id"`
	Rel   *string `json:"rel"`
	Note  *string `json:"note"`
}

func (s *Server) handleLinkCreate(w http.ResponseWriter, r *http.Request) {
	var in linkPayload
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	var p store.CreateLinkParams
	if in.SrcID != nil {
		p.SrcID = strings.TrimSpace(*in.SrcID)
	}
	if in.DstID != nil {
		p.DstID = strings.TrimSpace(*in.DstID)
	}
	if in.Rel != nil {
		p.Rel = strings.TrimSpace(*in.Rel)
	}
	if in.Note != nil {
		p.Note = *in.Note
	}

	id, err := s.store.CreateLink(r.Context(), p)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *Server) handleLinkList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := store.ListLinksFilter{
		SrcID: q.Get("src_id"),
		DstID: q.Get("dst_id"),
		Rel:   q.Get("rel"),
	}

	var err error
	if f.Limit, err = intArg(q.Get("limit")); err != nil {
		writeError(w, err)
		return
	}
	if f.Offset, err = intArg(q.Get("offset")); err != nil {
		writeError(w, err)
		return
	}

	links, err := s.store.ListLinks(r.Context(), f)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]store.Link{"links": links})
}

func (s *Server) handleLinkGet(w http.ResponseWriter, r *http.Request) {
	l, err := s.store.GetLink(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			notFound(w)
			return
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (s *Server) handleLinkUpdate(w http.ResponseWriter, r *http.Request) {
	var in linkPayload
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	var p store.UpdateLinkParams
	if in.Rel != nil {
		v := strings.TrimSpace(*in.Rel)
		p.Rel = &v
	}
	p.Note = in.Note

	id := r.PathValue("id")
	if err := s.store.UpdateLink(r.Context(), id, p); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": id})
}

func (s *Server) handleLinkDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.store.DeleteLink(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": id})
}

func (s *Server) handleElementLinks(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	q := r.URL.Query()

	limit, err := intArg(q.Get("limit"))
	if err != nil {
		writeError(w, err)
		return
	}

	direction := store.Direction(q.Get("direction"))
	links, err := s.store.ListLinksForElement(r.Context(), id, direction, q.Get("rel"), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"element_id": id, "links": links})
}

// intArg parses an optional integer query parameter. Empty means zero.
func intArg(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.New("invalid integer parameter")
	}
	return n, nil
}

// boolArg interprets common truthy query values.
func boolArg(s string) bool {
	switch s {
	case "1", "true", "yes":
		return true
	}
	return false
}
