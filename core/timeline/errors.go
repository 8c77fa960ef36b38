package timeline

import "errors"

// ErrStaleSection rejects a commit whose section was issued before the
// timeline's last mutation. The only recovery is to re-run the query
// against the current free list.
var ErrStaleSection = errors.New("wrong use of timeline (intersection vs. cut)")

// ErrSpanExceedsPeriod rejects a periodic span longer than its period:
// such a span would overlap its own next repetition.
var ErrSpanExceedsPeriod = errors.New("span length must be shorter than period")
