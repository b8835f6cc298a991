package server

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"

	goapi "github.com/Decentr-net/go-api"
	logging "github.com/Decentr-net/logrus/context"
	"github.com/go-chi/chi"

	"github.com/Decentr-net/veil/internal/entities"
	"github.com/Decentr-net/veil/internal/schema"
	"github.com/Decentr-net/veil/internal/service"
	"github.com/Decentr-net/veil/pkg/api"
)

// getAvatarHandler resolves avatar variant visible to the caller.
func (s *server) getAvatarHandler(w http.ResponseWriter, r *http.Request) {
	// swagger:operation GET /avatars/{subject} Avatar Get
	//
	// Resolves avatar
	//
	// Returns the variant of subject's avatar which the caller may see. Anonymous callers see public variants.
	// Failures are degraded to public variant or placeholder.
	//
	// ---
	// produces:
	// - application/json
	// security:
	// - observer: []
	// - public_key: []
	//   signature: []
	// parameters:
	// - name: subject
	//   description: avatar owner's address
	//   in: path
	//   required: true
	//   type: string
	// responses:
	//   '200':
	//     description: resolved avatar
	//     schema:
	//       "$ref": "#/definitions/Avatar"
	//   '400':
	//     description: bad request
	//     schema:
	//       "$ref": "#/definitions/Error"
	//   '401':
	//     description: signature wasn't verified
	//     schema:
	//       "$ref": "#/definitions/Error"

	subject := chi.URLParam(r, "subject")
	if !s.prefix.IsValid(subject) {
		goapi.WriteError(w, http.StatusBadRequest, "invalid subject")
		return
	}

	observer, err := s.getCaller(r, false)
	if err != nil {
		writeCallerError(w, r, err)
		return
	}

	res := s.s.ResolveAvatar(r.Context(), subject, observer)

	goapi.WriteOK(w, http.StatusOK, api.Avatar{
		URL:         res.URL,
		Type:        string(res.Type),
		IsEncrypted: res.IsEncrypted,
		HasAccess:   res.HasAccess,
		Error:       res.Error,
	})
}

// getPrivateAvatarHandler returns decrypted private variant.
func (s *server) getPrivateAvatarHandler(w http.ResponseWriter, r *http.Request) {
	// swagger:operation GET /avatars/{subject}/private Avatar GetPrivate
	//
	// Returns decrypted private variant
	//
	// ---
	// produces:
	// - application/octet-stream
	// security:
	// - observer: []
	// - public_key: []
	//   signature: []
	// parameters:
	// - name: subject
	//   description: avatar owner's address
	//   in: path
	//   required: true
	//   type: string
	// responses:
	//   '200':
	//     description: image
	//   '400':
	//     description: bad request
	//     schema:
	//       "$ref": "#/definitions/Error"
	//   '401':
	//     description: caller is unknown
	//     schema:
	//       "$ref": "#/definitions/Error"
	//   '403':
	//     description: access denied
	//     schema:
	//       "$ref": "#/definitions/Error"
	//   '404':
	//     description: avatar not found
	//     schema:
	//       "$ref": "#/definitions/Error"
	//   '503':
	//     description: encryption service is unavailable
	//     schema:
	//       "$ref": "#/definitions/Error"
	//   '500':
	//     description: internal server error
	//     schema:
	//       "$ref": "#/definitions/Error"

	subject := chi.URLParam(r, "subject")
	if !s.prefix.IsValid(subject) {
		goapi.WriteError(w, http.StatusBadRequest, "invalid subject")
		return
	}

	observer, err := s.getCaller(r, true)
	if err != nil {
		writeCallerError(w, r, err)
		return
	}

	data, err := s.s.ReceivePrivate(r.Context(), subject, observer)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", http.DetectContentType(data))
	w.Header().Set("Cache-Control", "private, no-store")
	w.WriteHeader(http.StatusOK)
	w.Write(data) // nolint
}

// uploadAvatarHandler stores both variants of caller's avatar.
func (s *server) uploadAvatarHandler(w http.ResponseWriter, r *http.Request) {
	// swagger:operation PUT /avatars/{subject} Avatar Upload
	//
	// Uploads avatar
	//
	// Replaces subject's avatar. Private variant is encrypted under a new policy which entitles subject's matches.
	//
	// ---
	// consumes:
	// - multipart/form-data
	// produces:
	// - application/json
	// security:
	// - observer: []
	// - public_key: []
	//   signature: []
	// responses:
	//   '201':
	//     description: avatar is uploaded
	//     schema:
	//       "$ref": "#/definitions/UploadResponse"
	//   '400':
	//     description: bad request
	//     schema:
	//       "$ref": "#/definitions/Error"
	//   '401':
	//     description: caller is unknown
	//     schema:
	//       "$ref": "#/definitions/Error"
	//   '403':
	//     description: caller is not the subject
	//     schema:
	//       "$ref": "#/definitions/Error"
	//   '500':
	//     description: internal server error
	//     schema:
	//       "$ref": "#/definitions/Error"

	subject, ok := s.authorizeOwner(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		goapi.WriteErrorf(w, http.StatusBadRequest, "invalid multipart form: %s", err.Error())
		return
	}
	defer r.MultipartForm.RemoveAll() // nolint

	public, err := readPart(r, api.PublicPart)
	if err != nil {
		goapi.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	private, err := readPart(r, api.PrivatePart)
	if err != nil {
		goapi.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	settings, err := schema.Decode([]byte(r.FormValue(api.SettingsPart)))
	if err != nil {
		goapi.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	rec, err := s.s.RecordUpload(r.Context(), service.UploadParams{
		SubjectID: subject,
		Public:    public,
		Private:   private,
		Settings:  settings,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	resp := api.UploadResponse{
		PublicBlobID:  rec.PublicBlobID,
		PrivateBlobID: rec.PrivateBlobID,
		PolicyID:      rec.PolicyID,
		Encrypted:     rec.PolicyKind != entities.PolicyKindTemporary,
	}
	if rec.UploadedAt != nil {
		resp.UploadedAt = *rec.UploadedAt
	}

	goapi.WriteOK(w, http.StatusCreated, resp)
}

// deleteAvatarHandler removes caller's avatar.
func (s *server) deleteAvatarHandler(w http.ResponseWriter, r *http.Request) {
	// swagger:operation DELETE /avatars/{subject} Avatar Delete
	//
	// Deletes avatar
	//
	// ---
	// security:
	// - observer: []
	// - public_key: []
	//   signature: []
	// parameters:
	// - name: subject
	//   description: avatar owner's address
	//   in: path
	//   required: true
	//   type: string
	// responses:
	//   '204':
	//     description: avatar is deleted
	//   '401':
	//     description: caller is unknown
	//     schema:
	//       "$ref": "#/definitions/Error"
	//   '403':
	//     description: caller is not the subject
	//     schema:
	//       "$ref": "#/definitions/Error"
	//   '404':
	//     description: avatar not found
	//     schema:
	//       "$ref": "#/definitions/Error"
	//   '500':
	//     description: internal server error
	//     schema:
	//       "$ref": "#/definitions/Error"

	subject, ok := s.authorizeOwner(w, r)
	if !ok {
		return
	}

	if err := s.s.DeleteAvatar(r.Context(), subject); err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// updatePermissionHandler grants or revokes observer's access to private variant.
func (s *server) updatePermissionHandler(w http.ResponseWriter, r *http.Request) {
	// swagger:operation POST /avatars/{subject}/permissions Avatar UpdatePermission
	//
	// Updates permission
	//
	// Permission is applied asynchronously. Cached results of the pair are dropped before the response.
	//
	// ---
	// consumes:
	// - application/json
	// security:
	// - observer: []
	// - public_key: []
	//   signature: []
	// parameters:
	// - name: subject
	//   description: avatar owner's address
	//   in: path
	//   required: true
	//   type: string
	// - name: request
	//   in: body
	//   required: true
	//   schema:
	//     "$ref": "#/definitions/PermissionRequest"
	// responses:
	//   '202':
	//     description: update is accepted
	//   '400':
	//     description: bad request
	//     schema:
	//       "$ref": "#/definitions/Error"
	//   '401':
	//     description: caller is unknown
	//     schema:
	//       "$ref": "#/definitions/Error"
	//   '403':
	//     description: caller is not the subject
	//     schema:
	//       "$ref": "#/definitions/Error"

	subject, ok := s.authorizeOwner(w, r)
	if !ok {
		return
	}

	data, err := ioutil.ReadAll(r.Body)
	if err != nil {
		goapi.WriteError(w, http.StatusBadRequest, "failed to read body")
		return
	}

	var req api.PermissionRequest
	if err := json.Unmarshal(data, &req); err != nil {
		goapi.WriteErrorf(w, http.StatusBadRequest, "request is invalid: %s", err.Error())
		return
	}

	if !req.IsValid() || !s.prefix.IsValid(req.Observer) {
		goapi.WriteError(w, http.StatusBadRequest, "request is invalid")
		return
	}

	s.s.UpdatePermission(r.Context(), subject, req.Observer, entities.PermissionAction(req.Action))

	logging.GetLogger(r.Context()).WithField("observer", req.Observer).Debugf("permission %s accepted", req.Action)

	w.WriteHeader(http.StatusAccepted)
}

// authorizeOwner returns subject if the caller is the subject. Otherwise it writes an error.
func (s *server) authorizeOwner(w http.ResponseWriter, r *http.Request) (string, bool) {
	subject := chi.URLParam(r, "subject")
	if !s.prefix.IsValid(subject) {
		goapi.WriteError(w, http.StatusBadRequest, "invalid subject")
		return "", false
	}

	caller, err := s.getCaller(r, true)
	if err != nil {
		writeCallerError(w, r, err)
		return "", false
	}

	if caller != subject {
		goapi.WriteError(w, http.StatusForbidden, "only owner can manage the avatar")
		return "", false
	}

	return subject, true
}

func readPart(r *http.Request, name string) ([]byte, error) {
	f, _, err := r.FormFile(name)
	if err != nil {
		return nil, fmt.Errorf("failed to get %s part: %w", name, err)
	}
	defer f.Close() // nolint

	b, err := ioutil.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s part: %w", name, err)
	}

	return b, nil
}
