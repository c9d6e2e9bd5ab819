package expertsrvc

import (
	"fmt"
	"net/http"

	"github.com/edustage/backend/srvcerror"
)

const ErrCodeNotAuthorized = "not_authorized"

func ErrNotOnJudgePanel() *srvcerror.Error {
	return srvcerror.New(
		ErrCodeNotAuthorized,
		"you are not on this activity's judge panel",
	).SetHttpStatusCode(http.StatusForbidden)
}

const ErrCodeInvalidScore = "invalid_score"

func ErrInvalidScore(reason string) *srvcerror.Error {
	return srvcerror.New(
		ErrCodeInvalidScore,
		fmt.Sprintf("invalid expert score: %s", reason),
	).SetHttpStatusCode(http.StatusBadRequest)
}

func ErrInternalSE() *srvcerror.Error {
	return srvcerror.ErrInternalSE()
}
