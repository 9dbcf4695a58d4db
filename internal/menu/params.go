package menu

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Params holds the recognized query parameters of one invocation. Unknown
// parameters are dropped; malformed numeric values read as zero.
type Params struct {
	Mode    int
	URL     string
	Name    string
	Fanart  string
	Desc    string
	Genre   string
	Studio  string
	Year    string
	TVID    int64
	Season  int
	Episode int
	Payload string
}

// Invocation is one navigation request: the plugin base URL, the directory
// handle assigned by the host, and the parsed query.
type Invocation struct {
	BaseURL string
	Handle  int
	Params  Params
}

// ParseInvocation reads the host argv convention: argv[0] is the plugin base
// URL, argv[1] the integer directory handle, argv[2] the "?"-prefixed query.
func ParseInvocation(argv []string) (*Invocation, error) {
	if len(argv) < 2 {
		return nil, fmt.Errorf("menu: invocation needs a base URL and a handle, got %d args", len(argv))
	}
	handle, err := strconv.Atoi(argv[1])
	if err != nil {
		return nil, fmt.Errorf("menu: invalid handle %q: %w", argv[1], err)
	}
	inv := &Invocation{BaseURL: argv[0], Handle: handle}
	if len(argv) > 2 {
		inv.Params = ParseQuery(argv[2])
	}
	return inv, nil
}

// ParseQuery parses an invocation query string into Params.
func ParseQuery(query string) Params {
	query = strings.TrimPrefix(query, "?")
	values, err := url.ParseQuery(query)
	if err != nil {
		return Params{}
	}
	return Params{
		Mode:    atoi(values.Get("mode")),
		URL:     values.Get("url"),
		Name:    values.Get("name"),
		Fanart:  values.Get("fanart"),
		Desc:    values.Get("desc"),
		Genre:   values.Get("genre"),
		Studio:  values.Get("studio"),
		Year:    values.Get("year"),
		TVID:    int64(atoi(values.Get("tv_id"))),
		Season:  atoi(values.Get("season")),
		Episode: atoi(values.Get("episode")),
		Payload: values.Get("payload"),
	}
}

// Token returns the payload token of the invocation, preferring the url
// parameter over the payload parameter.
func (p Params) Token() string {
	if p.URL != "" {
		return p.URL
	}
	return p.Payload
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
