package api

import (
	"context"
	"fmt"
	"log/slog"

	"dataflow-etl/conf"

	"github.com/google/uuid"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/bigquery/v2"
	"google.golang.org/api/option"
	"google.golang.org/api/storage/v1"
	"google.golang.org/api/transport"
)

var scopes = []string{bigquery.BigqueryScope, storage.DevstorageReadWriteScope}

// ClientOptions returns the options downstream API clients should be built
// with for this job.
func ClientOptions(base conf.BaseOptions) []option.ClientOption {
	opts := []option.ClientOption{option.WithScopes(scopes...)}
	if base.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(base.CredentialsFile))
	}
	if base.Project != "" {
		opts = append(opts, option.WithQuotaProject(base.Project))
	}
	return opts
}

// ResolveProject returns the project the job runs in: the explicit one if
// set, otherwise the project of the credentials the client options select,
// i.e. the credentials file or Application Default Credentials.
func ResolveProject(ctx context.Context, base conf.BaseOptions) (string, error) {
	if base.Project != "" {
		return base.Project, nil
	}
	creds, err := Credentials(ctx, base)
	if err != nil {
		return "", err
	}
	if creds.ProjectID == "" {
		return "", fmt.Errorf("no project set and none found in credentials; pass --project")
	}
	slog.Info("Using project from credentials", "project", creds.ProjectID)
	return creds.ProjectID, nil
}

// Credentials returns the credentials a client built with ClientOptions
// would use.
func Credentials(ctx context.Context, base conf.BaseOptions) (*google.Credentials, error) {
	creds, err := transport.Creds(ctx, ClientOptions(base)...)
	if err != nil {
		return nil, fmt.Errorf("finding credentials: %w", err)
	}
	return creds, nil
}

// ClientSummary describes the client configuration ClientOptions produces.
type ClientSummary struct {
	Credentials  string   `yaml:"credentials"`
	QuotaProject string   `yaml:"quotaProject,omitempty"`
	Scopes       []string `yaml:"scopes"`
}

func DescribeClient(base conf.BaseOptions) ClientSummary {
	creds := "application default"
	if base.CredentialsFile != "" {
		creds = base.CredentialsFile
	}
	return ClientSummary{
		Credentials:  creds,
		QuotaProject: base.Project,
		Scopes:       append([]string(nil), scopes...),
	}
}

// NewJobName returns a unique default job name.
func NewJobName() string {
	return "etl-" + uuid.NewString()
}
