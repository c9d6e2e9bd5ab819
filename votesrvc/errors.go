package votesrvc

import (
	"net/http"

	"github.com/edustage/backend/srvcerror"
)

const ErrCodeDuplicateVote = "duplicate_vote"

func ErrDuplicateVote() *srvcerror.Error {
	return srvcerror.New(
		ErrCodeDuplicateVote,
		"you have already voted for this submission",
	).SetHttpStatusCode(http.StatusConflict)
}

func ErrInternalSE() *srvcerror.Error {
	return srvcerror.ErrInternalSE()
}
