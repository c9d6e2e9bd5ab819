package actsrvc

import (
	"fmt"
	"net/http"

	"github.com/edustage/backend/srvcerror"
)

const ErrCodeActivityNotFound = "activity_not_found"

func ErrActivityNotFound() *srvcerror.Error {
	return srvcerror.New(
		ErrCodeActivityNotFound,
		"the requested activity was not found",
	).SetHttpStatusCode(http.StatusNotFound)
}

const ErrCodeInvalidActivityConfig = "invalid_activity_config"

func ErrInvalidActivityConfig(reason string) *srvcerror.Error {
	return srvcerror.New(
		ErrCodeInvalidActivityConfig,
		fmt.Sprintf("invalid activity configuration: %s", reason),
	).SetHttpStatusCode(http.StatusBadRequest)
}

const ErrCodeNotInPhase = "not_in_phase"

func ErrNotInPhase(phase Phase) *srvcerror.Error {
	return srvcerror.New(
		ErrCodeNotInPhase,
		fmt.Sprintf("the activity is not in its %s phase", phase),
	).SetHttpStatusCode(http.StatusConflict)
}

const ErrCodeAlreadyEnrolled = "already_enrolled"

func ErrAlreadyEnrolled() *srvcerror.Error {
	return srvcerror.New(
		ErrCodeAlreadyEnrolled,
		"you are already enrolled in this activity",
	).SetHttpStatusCode(http.StatusConflict)
}

const ErrCodeActivityFull = "activity_full"

func ErrActivityFull() *srvcerror.Error {
	return srvcerror.New(
		ErrCodeActivityFull,
		"the activity has reached its participant limit",
	).SetHttpStatusCode(http.StatusConflict)
}

func ErrInternalSE() *srvcerror.Error {
	return srvcerror.ErrInternalSE()
}
