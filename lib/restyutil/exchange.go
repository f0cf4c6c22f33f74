package restyutil

import (
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/go-resty/resty/v2"
)

// writeHeaders writes one "Key: value" line per header value, sorted by key so dumps
// of the same exchange diff cleanly.
func writeHeaders(out *strings.Builder, prefix string, headers http.Header) {
	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		for _, v := range headers[k] {
			fmt.Fprintf(out, "%s %s: %s\n", prefix, k, v)
		}
	}
}

func requestBody(req *http.Request) string {
	if req == nil || req.GetBody == nil {
		return ""
	}
	body, err := req.GetBody()
	if err != nil {
		return fmt.Sprintf("<failed to get request body: %s>", err)
	}
	defer body.Close()
	contents, err := io.ReadAll(body)
	if err != nil {
		return fmt.Sprintf("<failed to read request body: %s>", err)
	}
	return string(contents)
}

// formatExchange renders a request and its response in a curl -v like layout:
//
//	# run <run id>, exchange <seq>
//	> GET https://coinmarketcap.com/
//	> User-Agent: ...
//
//	< 200 https://coinmarketcap.com/
//	< Content-Type: text/html
//
//	<body>
func formatExchange(runId, seq string, res *resty.Response) string {
	var out strings.Builder

	if runId != "" {
		fmt.Fprintf(&out, "# run %s, exchange %s\n", runId, seq)
	} else {
		fmt.Fprintf(&out, "# exchange %s\n", seq)
	}

	fmt.Fprintf(&out, "> %s %s\n", res.Request.Method, res.Request.URL)
	var raw *http.Request
	if res.Request.RawRequest != nil {
		raw = res.Request.RawRequest
		writeHeaders(&out, ">", raw.Header)
	}
	if body := requestBody(raw); body != "" {
		out.WriteString("\n")
		out.WriteString(body)
		out.WriteString("\n")
	}

	location := res.Request.URL
	if res.RawResponse != nil {
		redirected, err := res.RawResponse.Location()
		if err == nil {
			location = redirected.String()
		}
	}
	fmt.Fprintf(&out, "\n< %d %s\n", res.StatusCode(), location)
	writeHeaders(&out, "<", res.Header())
	out.WriteString("\n")
	out.Write(res.Body())

	return out.String()
}
