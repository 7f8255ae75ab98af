package api

import (
	"fmt"

	"dataflow-etl/conf"

	"google.golang.org/api/bigquery/v2"
)

const (
	WriteTruncate   = "WRITE_TRUNCATE"
	WriteAppend     = "WRITE_APPEND"
	CreateIfNeeded  = "CREATE_IF_NEEDED"
	SourceFormatCSV = "CSV"
)

// TableRef resolves the destination table of o.
func TableRef(project string, o *conf.Options) (*bigquery.TableReference, error) {
	dataset, err := o.Dataset().Resolve()
	if err != nil {
		return nil, err
	}
	table, err := o.Table().Resolve()
	if err != nil {
		return nil, err
	}
	if dataset == "" || table == "" {
		return nil, fmt.Errorf("dataset and table must not be empty (got %q.%q)", dataset, table)
	}
	return &bigquery.TableReference{
		ProjectId: project,
		DatasetId: dataset,
		TableId:   table,
	}, nil
}

// LoadConfig builds the load step loading the exported files into the
// destination table. Dropping the table maps to a truncating write.
func LoadConfig(project string, o *conf.Options) (*bigquery.JobConfigurationLoad, error) {
	ref, err := TableRef(project, o)
	if err != nil {
		return nil, err
	}
	drop, err := o.DropTable().Resolve()
	if err != nil {
		return nil, err
	}
	uri, err := OutputURI(o)
	if err != nil {
		return nil, err
	}

	disposition := WriteAppend
	if drop {
		disposition = WriteTruncate
	}
	return &bigquery.JobConfigurationLoad{
		DestinationTable:  ref,
		SourceUris:        []string{uri + "/*"},
		SourceFormat:      SourceFormatCSV,
		SkipLeadingRows:   1,
		Autodetect:        true,
		CreateDisposition: CreateIfNeeded,
		WriteDisposition:  disposition,
	}, nil
}
