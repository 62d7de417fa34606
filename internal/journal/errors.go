package journal

import (
	"git.home.luguber.info/inful/notionsync/internal/foundation/errors"
)

var (
	// ErrOpenFailed indicates the SQLite database could not be opened.
	ErrOpenFailed = errors.JournalError("could not open sync journal").Build()

	// ErrSchemaFailed indicates the schema could not be initialized.
	ErrSchemaFailed = errors.JournalError("failed to initialize sync journal schema").Build()

	// ErrAppendFailed indicates writing an event failed.
	ErrAppendFailed = errors.JournalError("failed to append journal event").Build()

	// ErrQueryFailed indicates reading events failed.
	ErrQueryFailed = errors.JournalError("failed to query journal events").Build()
)

func wrap(sentinel *errors.ClassifiedError, cause error) error {
	return errors.WrapError(cause, sentinel.Category(), sentinel.Message()).Build()
}
