package guess

import (
	"io"

	"filemodel-registry/internal/filemodel"
)

type GuessServiceAPI interface {
	Guess(r io.Reader, filename string) (filemodel.CsvFileModel, error)
}
