package controller

// Pager reconciles the zero-based server paging contract with the one-based
// page numbers shown to users. DisplayPage() == ServerPage()+1 holds after
// every transition.
type Pager struct {
	server int
}

// ServerPage returns the zero-based page index sent upstream.
func (p *Pager) ServerPage() int {
	return p.server
}

// DisplayPage returns the one-based page number for the UI, always >= 1.
func (p *Pager) DisplayPage() int {
	return p.server + 1
}

// SetDisplayPage accepts a one-based page number from a user click.
// Values below 1 clamp to the first page.
func (p *Pager) SetDisplayPage(display int) {
	if display < 1 {
		display = 1
	}
	p.server = display - 1
}

// Reset returns to the first page. Required after any page-size, filter,
// search or sort change: the old offset is meaningless under the new query.
func (p *Pager) Reset() {
	p.server = 0
}
