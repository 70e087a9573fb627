// Package file writes records to CSV files. It backs the --csv-test output
// and the inert preview channel used when the run is in debug mode.
package file

import (
	"encoding/csv"
	"os"

	"github.com/pkg/errors"
	"github.com/seoreports/gscsync/logger"
	"github.com/seoreports/gscsync/stream"
)

// CSVFileOutput writes records with a fixed header to one OS file.
type CSVFileOutput struct {
	log          logger.Logger
	fileName     string
	headerRecord []string
	file         *os.File
	csvWriter    *csv.Writer
	rowCount     int
	needHeader   bool
}

// NewCSVFileOutput creates a CSV writer for fileName with the supplied
// header. The file is created lazily on the first write so a run that
// produces no rows leaves no empty file behind.
func NewCSVFileOutput(log logger.Logger, fileName string, headerRecord []string) *CSVFileOutput {
	return &CSVFileOutput{
		log:          log,
		fileName:     fileName,
		headerRecord: headerRecord,
		needHeader:   true,
	}
}

// MustWriteToCSV writes the header (first time) and one row per record,
// rendering fields in header order.
func (f *CSVFileOutput) MustWriteToCSV(recs []stream.Record) {
	if err := f.writeToCSV(recs); err != nil {
		f.log.Panic("Error writing CSV file: ", err)
	}
}

func (f *CSVFileOutput) writeToCSV(recs []stream.Record) error {
	if len(recs) == 0 {
		return nil
	}
	if f.file == nil {
		file, err := os.Create(f.fileName)
		if err != nil {
			return errors.Wrapf(err, "unable to create CSV file %v", f.fileName)
		}
		f.file = file
		f.csvWriter = csv.NewWriter(file)
	}
	if f.needHeader {
		if err := f.csvWriter.Write(f.headerRecord); err != nil {
			return errors.Wrap(err, "unable to write CSV header")
		}
		f.needHeader = false
	}
	for _, rec := range recs {
		row := rec.GetDataKeysAsSlice(f.log, f.headerRecord)
		if err := f.csvWriter.Write(row); err != nil {
			return errors.Wrap(err, "unable to write CSV row")
		}
		f.rowCount++
	}
	f.csvWriter.Flush()
	return f.csvWriter.Error()
}

// RowCount returns the number of data rows written so far.
func (f *CSVFileOutput) RowCount() int {
	return f.rowCount
}

// Close flushes and closes the underlying file if one was created.
func (f *CSVFileOutput) Close() error {
	if f.file == nil {
		return nil
	}
	f.csvWriter.Flush()
	if err := f.csvWriter.Error(); err != nil {
		_ = f.file.Close()
		return err
	}
	return f.file.Close()
}
