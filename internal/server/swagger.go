//go:build swagger
// +build swagger

package server

// swagger:parameters UploadAvatar
type uploadAvatarParams struct {
	// in: path
	// required: true
	Subject string `json:"subject"`
	// Public variant served to everyone.
	// in: formData
	// required: true
	// swagger:file
	Public interface{} `json:"public"`
	// Private variant, it's encrypted before storing.
	// in: formData
	// required: true
	// swagger:file
	Private interface{} `json:"private"`
	// Versioned settings json.
	// in: formData
	// required: true
	Settings string `json:"settings"`
}
