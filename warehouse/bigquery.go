package warehouse

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
	"github.com/pkg/errors"
	c "github.com/seoreports/gscsync/constants"
	"github.com/seoreports/gscsync/keys"
	"github.com/seoreports/gscsync/logger"
	"github.com/seoreports/gscsync/stream"
	tabledefinition "github.com/seoreports/gscsync/table-definition"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// ConnectionDetails holds what we need to reach one BigQuery dataset.
type ConnectionDetails struct {
	Project            string
	Dataset            string
	ServiceAccountFile string
}

type bqConnector struct {
	ctx     context.Context
	log     logger.Logger
	client  *bigquery.Client
	project string
	dataset string
}

// NewBigQueryConnector opens a BigQuery client for the configured dataset.
// The supplied context covers the life of the connector; cancellation beyond
// process death is not modelled by this tool.
func NewBigQueryConnector(ctx context.Context, log logger.Logger, details *ConnectionDetails) (Connector, error) {
	client, err := bigquery.NewClient(ctx, details.Project, option.WithCredentialsFile(details.ServiceAccountFile))
	if err != nil {
		return nil, errors.Wrap(err, "unable to create BigQuery client")
	}
	return &bqConnector{
		ctx:     ctx,
		log:     log,
		client:  client,
		project: details.Project,
		dataset: details.Dataset,
	}, nil
}

func (b *bqConnector) GetType() string {
	return "bigquery"
}

func (b *bqConnector) fullTableName(tableName string) string {
	return fmt.Sprintf("%v.%v.%v", b.project, b.dataset, tableName)
}

func (b *bqConnector) TableExists(tableName string) (bool, error) {
	_, err := b.client.Dataset(b.dataset).Table(tableName).Metadata(b.ctx)
	if err != nil {
		var gerr *googleapi.Error
		if errors.As(err, &gerr) && gerr.Code == 404 {
			return false, nil
		}
		return false, errors.Wrapf(err, "unable to fetch metadata for table %v", tableName)
	}
	return true, nil
}

func (b *bqConnector) CreateTable(tableName string, td *tabledefinition.TableDefinition) error {
	meta := &bigquery.TableMetadata{
		Schema:     tableSchema(td),
		Clustering: &bigquery.Clustering{Fields: td.ClusteringFields},
	}
	if err := b.client.Dataset(b.dataset).Table(tableName).Create(b.ctx, meta); err != nil {
		return errors.Wrapf(err, "unable to create table %v", tableName)
	}
	b.log.Info("created table ", b.fullTableName(tableName))
	return nil
}

// ExistingKeys fetches the set of unique_key values currently persisted,
// optionally bounded by the supplied scope to keep the read cheap.
func (b *bqConnector) ExistingKeys(tableName string, scope keys.Scope) (map[string]struct{}, error) {
	sqlText := fmt.Sprintf("SELECT %v FROM `%v`", c.ColUniqueKey, b.fullTableName(tableName))
	preds := make([]string, 0, 2)
	if scope.StartDate != "" && scope.EndDate != "" {
		preds = append(preds, fmt.Sprintf("%v BETWEEN '%v' AND '%v'", c.ColDate, scope.StartDate, scope.EndDate))
	}
	if scope.Where != "" {
		preds = append(preds, scope.Where)
	}
	if len(preds) > 0 {
		sqlText = sqlText + " WHERE " + strings.Join(preds, " AND ")
	}
	it, err := b.client.Query(sqlText).Read(b.ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to query existing keys from %v", tableName)
	}
	existing := make(map[string]struct{})
	for {
		var vals []bigquery.Value
		err := it.Next(&vals)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "unable to iterate existing keys from %v", tableName)
		}
		if key, ok := vals[0].(string); ok {
			existing[key] = struct{}{}
		}
	}
	return existing, nil
}

// ReadRows fetches full rows back out of a table, bounded by the supplied
// scope. Tables without a Date column are bounded on fetch_date instead, so
// reloading a snapshot table still reads only the run window.
func (b *bqConnector) ReadRows(tableName string, td *tabledefinition.TableDefinition, scope keys.Scope) ([]stream.Record, error) {
	cols := td.ColumnNames()
	sqlText := fmt.Sprintf("SELECT %v FROM `%v`", strings.Join(cols, ", "), b.fullTableName(tableName))
	dateCol := ""
	if td.HasColumn(c.ColDate) {
		dateCol = c.ColDate
	} else if td.HasColumn(c.ColFetchDate) {
		dateCol = c.ColFetchDate
	}
	preds := make([]string, 0, 2)
	if scope.StartDate != "" && scope.EndDate != "" && dateCol != "" {
		preds = append(preds, fmt.Sprintf("%v BETWEEN '%v' AND '%v'", dateCol, scope.StartDate, scope.EndDate))
	}
	if scope.Where != "" {
		preds = append(preds, scope.Where)
	}
	if len(preds) > 0 {
		sqlText = sqlText + " WHERE " + strings.Join(preds, " AND ")
	}
	it, err := b.client.Query(sqlText).Read(b.ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read rows from %v", tableName)
	}
	recs := make([]stream.Record, 0)
	for {
		var vals []bigquery.Value
		err := it.Next(&vals)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "unable to iterate rows from %v", tableName)
		}
		rec := stream.NewRecord()
		for i, col := range cols {
			if i >= len(vals) {
				break
			}
			if d, ok := vals[i].(civil.Date); ok {
				rec.SetData(col, d.String())
				continue
			}
			rec.SetData(col, vals[i])
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

// QueryStringPairs runs sqlText expecting two string columns and returns the
// first as map keys and the second as map values.
func (b *bqConnector) QueryStringPairs(sqlText string) (map[string]string, error) {
	it, err := b.client.Query(sqlText).Read(b.ctx)
	if err != nil {
		return nil, errors.Wrap(err, "unable to run pair query")
	}
	pairs := make(map[string]string)
	for {
		var vals []bigquery.Value
		err := it.Next(&vals)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "unable to iterate pair query results")
		}
		if len(vals) < 2 {
			continue
		}
		k, kok := vals[0].(string)
		v, vok := vals[1].(string)
		if kok && vok {
			pairs[k] = v
		}
	}
	return pairs, nil
}

// Append streams the records into the table with append-only semantics.
// Each record's unique_key doubles as the BigQuery insert id, which gives the
// service its own best-effort window against replays of the same page.
func (b *bqConnector) Append(tableName string, td *tabledefinition.TableDefinition, recs []stream.Record) error {
	if len(recs) == 0 {
		return nil
	}
	schema := tableSchema(td)
	savers := make([]*bigquery.ValuesSaver, 0, len(recs))
	for _, rec := range recs {
		row, err := recordToRow(rec, td)
		if err != nil {
			return err
		}
		insertID := ""
		if v, ok := rec.GetDataOk(c.ColUniqueKey); ok {
			insertID, _ = v.(string)
		}
		savers = append(savers, &bigquery.ValuesSaver{
			Schema:   schema,
			InsertID: insertID,
			Row:      row,
		})
	}
	ins := b.client.Dataset(b.dataset).Table(tableName).Inserter()
	if err := ins.Put(b.ctx, savers); err != nil {
		return errors.Wrapf(err, "unable to append %v rows to %v", len(recs), tableName)
	}
	return nil
}

func tableSchema(td *tabledefinition.TableDefinition) bigquery.Schema {
	schema := make(bigquery.Schema, 0, len(td.Columns))
	for _, col := range td.Columns {
		schema = append(schema, &bigquery.FieldSchema{Name: col.Name, Type: fieldType(col.Type)})
	}
	return schema
}

func fieldType(t tabledefinition.ColumnType) bigquery.FieldType {
	switch t {
	case tabledefinition.TypeInteger:
		return bigquery.IntegerFieldType
	case tabledefinition.TypeFloat:
		return bigquery.FloatFieldType
	case tabledefinition.TypeDate:
		return bigquery.DateFieldType
	default:
		return bigquery.StringFieldType
	}
}

// recordToRow renders a record as an ordered value slice matching the table
// definition. Date columns are parsed into civil dates; numeric coercion has
// already happened upstream in the sink writer.
func recordToRow(rec stream.Record, td *tabledefinition.TableDefinition) ([]bigquery.Value, error) {
	row := make([]bigquery.Value, 0, len(td.Columns))
	for _, col := range td.Columns {
		v, ok := rec.GetDataOk(col.Name)
		if !ok {
			row = append(row, nil)
			continue
		}
		if col.Type == tabledefinition.TypeDate {
			s, _ := v.(string)
			d, err := civil.ParseDate(s)
			if err != nil {
				return nil, errors.Wrapf(err, "unable to parse %v value %q", col.Name, s)
			}
			row = append(row, d)
			continue
		}
		row = append(row, v)
	}
	return row, nil
}
