package ranksrvc

import (
	"net/http"

	"github.com/edustage/backend/srvcerror"
)

const ErrCodePersistenceFailure = "persistence_failure"

func ErrSnapshotPersistence() *srvcerror.Error {
	return srvcerror.New(
		ErrCodePersistenceFailure,
		"the ranking could not be persisted; the previous ranking remains in effect",
	).SetHttpStatusCode(http.StatusInternalServerError)
}

func ErrInternalSE() *srvcerror.Error {
	return srvcerror.ErrInternalSE()
}
