package submsrvc

import (
	"net/http"

	"github.com/edustage/backend/srvcerror"
)

const ErrCodeSubmissionNotFound = "submission_not_found"

func ErrSubmissionNotFound() *srvcerror.Error {
	return srvcerror.New(
		ErrCodeSubmissionNotFound,
		"the requested submission was not found",
	).SetHttpStatusCode(http.StatusNotFound)
}

const ErrCodeAlreadySubmitted = "already_submitted"

func ErrAlreadySubmitted() *srvcerror.Error {
	return srvcerror.New(
		ErrCodeAlreadySubmitted,
		"you have already submitted a work to this activity",
	).SetHttpStatusCode(http.StatusConflict)
}

const ErrCodeNotEnrolled = "not_enrolled"

func ErrNotEnrolled() *srvcerror.Error {
	return srvcerror.New(
		ErrCodeNotEnrolled,
		"you are not enrolled in this activity",
	).SetHttpStatusCode(http.StatusForbidden)
}

const ErrCodeContentRejected = "content_rejected"

func ErrContentRejected() *srvcerror.Error {
	return srvcerror.New(
		ErrCodeContentRejected,
		"the submitted content was rejected by moderation",
	).SetHttpStatusCode(http.StatusBadRequest)
}

const ErrCodeSubmissionTooLong = "submission_too_long"

func ErrSubmissionTooLong(maxKB int) *srvcerror.Error {
	return srvcerror.New(
		ErrCodeSubmissionTooLong,
		"the submitted content exceeds the size limit",
	).SetHttpStatusCode(http.StatusBadRequest)
}

func ErrInternalSE() *srvcerror.Error {
	return srvcerror.ErrInternalSE()
}
