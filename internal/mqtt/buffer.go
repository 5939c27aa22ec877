package mqtt

// outbound is one publish queued while the broker link is down.
type outbound struct {
	topic    string
	payload  []byte
	qos      byte
	retained bool
}

// backlog holds at most limit messages, discarding the oldest once full.
// Callers hold the publisher mutex.
type backlog struct {
	msgs    []outbound
	limit   int
	dropped bool
}

func newBacklog(limit int) *backlog {
	return &backlog{limit: max(limit, 1)}
}

// push queues m. It reports true only for the first discard since the last drain.
func (b *backlog) push(m outbound) bool {
	if len(b.msgs) < b.limit {
		b.msgs = append(b.msgs, m)
		return false
	}
	copy(b.msgs, b.msgs[1:])
	b.msgs[len(b.msgs)-1] = m
	report := !b.dropped
	b.dropped = true
	return report
}

// drainAll hands back the queued messages oldest first and empties the backlog.
func (b *backlog) drainAll() []outbound {
	if len(b.msgs) == 0 {
		return nil
	}
	out := b.msgs
	b.msgs = nil
	b.dropped = false
	return out
}

func (b *backlog) len() int {
	return len(b.msgs)
}
