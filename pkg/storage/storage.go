// Package storage provides blob storage operations with an Azure Blob
// Storage implementation. Operations address containers explicitly
// because workflow artifacts land beside the source documents they were
// derived from.
package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"sort"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
)

// Folder groups the blobs under one top-level virtual directory of a
// container, in lexical order.
type Folder struct {
	Name  string
	Blobs []string
}

// System manages blob storage operations for the pipeline.
type System interface {
	// GetBlobContent reads the full content of a blob.
	// Returns ErrNotFound if the blob does not exist.
	GetBlobContent(ctx context.Context, container, name string) ([]byte, error)
	// Write stores data at the given blob name, creating the container if
	// absent. When overwrite is false and the blob exists, ErrExists is
	// returned.
	Write(ctx context.Context, container, name string, data []byte, overwrite bool) error
	// GroupByTopLevelFolder lists blobs whose names match pattern and
	// groups them by their top-level folder segment. Blobs at the
	// container root are skipped. Folders are returned in lexical order.
	GroupByTopLevelFolder(ctx context.Context, container, pattern string) ([]Folder, error)
}

type azure struct {
	client *azblob.Client
	logger *slog.Logger
}

// New creates a storage system from the given configuration. Connection
// string auth takes precedence; otherwise the storage account URL is used
// with the default Azure credential chain.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	client, err := newClient(cfg)
	if err != nil {
		return nil, err
	}

	return &azure{
		client: client,
		logger: logger.With("system", "storage"),
	}, nil
}

func newClient(cfg *Config) (*azblob.Client, error) {
	if cfg.ConnectionString != "" {
		client, err := azblob.NewClientFromConnectionString(cfg.ConnectionString, nil)
		if err != nil {
			return nil, fmt.Errorf("create storage client: %w", err)
		}
		return client, nil
	}

	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("acquire storage credential: %w", err)
	}

	client, err := azblob.NewClient(cfg.AccountURL(), cred, nil)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	return client, nil
}

func (a *azure) GetBlobContent(ctx context.Context, container, name string) ([]byte, error) {
	if err := validateKey(name); err != nil {
		return nil, err
	}

	resp, err := a.client.DownloadStream(ctx, container, name, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound, bloberror.ContainerNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("download blob %s: %w", name, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read blob %s: %w", name, err)
	}

	return data, nil
}

func (a *azure) Write(ctx context.Context, container, name string, data []byte, overwrite bool) error {
	if err := validateKey(name); err != nil {
		return err
	}

	if err := a.ensureContainer(ctx, container); err != nil {
		return err
	}

	var opts *azblob.UploadBufferOptions
	if !overwrite {
		opts = &azblob.UploadBufferOptions{
			AccessConditions: &blob.AccessConditions{
				ModifiedAccessConditions: &blob.ModifiedAccessConditions{
					IfNoneMatch: ptr(azcore.ETagAny),
				},
			},
		}
	}

	_, err := a.client.UploadBuffer(ctx, container, name, data, opts)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobAlreadyExists) {
			return ErrExists
		}
		return fmt.Errorf("upload blob %s: %w", name, err)
	}

	a.logger.Debug("blob written", "container", container, "name", name, "bytes", len(data))
	return nil
}

func (a *azure) GroupByTopLevelFolder(ctx context.Context, container, pattern string) ([]Folder, error) {
	match, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("compile blob pattern: %w", err)
	}

	grouped := make(map[string][]string)

	pager := a.client.NewListBlobsFlatPager(container, nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			if bloberror.HasCode(err, bloberror.ContainerNotFound) {
				return nil, ErrNotFound
			}
			return nil, fmt.Errorf("list blobs in %s: %w", container, err)
		}

		for _, item := range page.Segment.BlobItems {
			if item.Name == nil {
				continue
			}
			name := *item.Name
			folder, ok := topLevelFolder(name)
			if !ok || !match.MatchString(name) {
				continue
			}
			grouped[folder] = append(grouped[folder], name)
		}
	}

	folders := make([]Folder, 0, len(grouped))
	for name, blobs := range grouped {
		sort.Strings(blobs)
		folders = append(folders, Folder{Name: name, Blobs: blobs})
	}
	sort.Slice(folders, func(i, j int) bool { return folders[i].Name < folders[j].Name })

	return folders, nil
}

func (a *azure) ensureContainer(ctx context.Context, container string) error {
	_, err := a.client.CreateContainer(ctx, container, nil)
	if err != nil && !bloberror.HasCode(err, bloberror.ContainerAlreadyExists) {
		return fmt.Errorf("create container %s: %w", container, err)
	}
	return nil
}

func topLevelFolder(name string) (string, bool) {
	folder, rest, found := strings.Cut(name, "/")
	if !found || folder == "" || rest == "" {
		return "", false
	}
	return folder, true
}

func validateKey(key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if strings.Contains(key, "..") {
		return ErrInvalidKey
	}
	return nil
}

func ptr[T any](v T) *T { return &v }
