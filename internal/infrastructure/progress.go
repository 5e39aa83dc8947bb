package infrastructure

import (
	"io"

	"github.com/yourusername/trackpull-go/internal/domain"
)

// FallbackTotalBytes is the fixed denominator used to render a percentage
// when the server does not advertise a content length. The resulting value is
// an approximation, not an exact measure.
const FallbackTotalBytes int64 = 10_000_000

// progressReader counts bytes flowing through it and reports an integer
// percentage to the callback. The reported value is clamped to 100 and never
// decreases within one transfer.
type progressReader struct {
	r        io.Reader
	total    int64
	received int64
	last     int
	report   domain.ProgressFunc
}

// newProgressReader wraps r. When total is unknown (<= 0) the fallback
// denominator is substituted so a percentage can still be rendered.
func newProgressReader(r io.Reader, total int64, report domain.ProgressFunc) *progressReader {
	if total <= 0 {
		total = FallbackTotalBytes
	}
	return &progressReader{r: r, total: total, last: -1, report: report}
}

func (p *progressReader) Read(buf []byte) (int, error) {
	n, err := p.r.Read(buf)
	if n > 0 {
		p.received += int64(n)
		p.emit()
	}
	return n, err
}

func (p *progressReader) emit() {
	if p.report == nil {
		return
	}
	percent := int(p.received * 100 / p.total)
	if percent > 100 {
		percent = 100
	}
	if percent <= p.last {
		return
	}
	p.last = percent
	p.report(percent)
}

// Received returns the number of bytes read so far.
func (p *progressReader) Received() int64 {
	return p.received
}
