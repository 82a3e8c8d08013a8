package documents

import "github.com/banerRana/docpipe/pkg/results"

// DocumentFolder is one top-level folder of documents in a storage
// container, the unit of fan-out for batch processing.
type DocumentFolder struct {
	ContainerName     string   `json:"container_name"`
	Name              string   `json:"name"`
	DocumentFileNames []string `json:"document_file_names"`
}

// Validate checks that the folder identifies a container, has a name, and
// holds at least one document.
func (f *DocumentFolder) Validate() *results.ValidationResult {
	result := results.NewValidationResult()

	if f.ContainerName == "" {
		result.AddError("container_name is required")
	}
	if f.Name == "" {
		result.AddError("name is required")
	}
	if len(f.DocumentFileNames) == 0 {
		result.AddError("document_file_names is required")
	}

	return result
}

// DocumentFolders is an ordered set of document folders.
type DocumentFolders struct {
	Folders []DocumentFolder `json:"folders"`
}
