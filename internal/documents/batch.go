package documents

import "github.com/banerRana/docpipe/pkg/results"

// BatchRequest asks for every document folder in a storage container to
// be processed. It is the payload shape shared by all ingress triggers.
type BatchRequest struct {
	ContainerName string `json:"container_name"`
}

// Validate checks the request names a container.
func (r *BatchRequest) Validate() *results.ValidationResult {
	result := results.NewValidationResult()

	if r.ContainerName == "" {
		result.AddError("container_name is required")
	}

	return result
}
