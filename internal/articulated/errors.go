package articulated

import "errors"

var (
	// ErrUnknownLink indicates a link id that does not belong to the body.
	ErrUnknownLink = errors.New("articulated: unknown link")

	// ErrRootJoint indicates a joint operation on the root link, which has none.
	ErrRootJoint = errors.New("articulated: root link has no joint")

	// ErrInvalidJoint indicates a joint with a zero axis or an empty limit range.
	ErrInvalidJoint = errors.New("articulated: invalid joint")
)
