package intake

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractPrefersPastedText(t *testing.T) {
	got := Extract("texto colado", "email.eml", []byte("conteúdo do arquivo"), 0)

	assert.Equal(t, "texto colado", got)
}

func TestExtractClipsByRunes(t *testing.T) {
	got := Extract("ação e reação", "", nil, 6)

	assert.Equal(t, "ação e", got)
}

func TestExtractEmptyInput(t *testing.T) {
	assert.Empty(t, Extract("", "", nil, 100))
	assert.Empty(t, Extract("   ", "email.txt", nil, 100))
}

func TestExtractPlainTextFile(t *testing.T) {
	got := Extract("", "email.txt", []byte("Preciso de suporte."), 100)

	assert.Equal(t, "Preciso de suporte.", got)
}

func TestExtractLatin1Fallback(t *testing.T) {
	// "Olá" encoded as Latin-1: the 0xE1 byte is invalid UTF-8.
	got := Extract("", "email.txt", []byte{'O', 'l', 0xE1}, 100)

	assert.Equal(t, "Olá", got)
}

func TestExtractHTMLFile(t *testing.T) {
	src := `<html><head><style>p { color: red }</style>` +
		`<script>var x = "ignorado";</script></head>` +
		`<body><p>Preciso de ajuda</p><p>protocolo 4521</p></body></html>`

	got := Extract("", "email.html", []byte(src), 0)

	assert.Equal(t, "Preciso de ajuda\nprotocolo 4521", got)
}

func TestExtractEMLQuotedPrintable(t *testing.T) {
	eml := "From: cliente@example.com\r\n" +
		"Subject: Suporte\r\n" +
		"Content-Type: text/plain; charset=utf-8\r\n" +
		"Content-Transfer-Encoding: quoted-printable\r\n" +
		"\r\n" +
		"Ol=C3=A1, preciso de ajuda com o login.\r\n"

	got := Extract("", "mensagem.eml", []byte(eml), 0)

	assert.Equal(t, "Olá, preciso de ajuda com o login.", got)
}

func TestExtractEMLBase64(t *testing.T) {
	eml := "From: cliente@example.com\r\n" +
		"Content-Type: text/plain; charset=utf-8\r\n" +
		"Content-Transfer-Encoding: base64\r\n" +
		"\r\n" +
		"cHJvdG9jb2xvIDQ1MjE=\r\n"

	got := Extract("", "mensagem.eml", []byte(eml), 0)

	assert.Equal(t, "protocolo 4521", got)
}

func TestExtractEMLMultipartPrefersPlain(t *testing.T) {
	eml := "From: cliente@example.com\r\n" +
		"Content-Type: multipart/alternative; boundary=\"fronteira\"\r\n" +
		"\r\n" +
		"--fronteira\r\n" +
		"Content-Type: text/html; charset=utf-8\r\n" +
		"\r\n" +
		"<p>versão html</p>\r\n" +
		"--fronteira\r\n" +
		"Content-Type: text/plain; charset=utf-8\r\n" +
		"\r\n" +
		"versão texto\r\n" +
		"--fronteira--\r\n"

	got := Extract("", "mensagem.eml", []byte(eml), 0)

	assert.Equal(t, "versão texto", got)
}

func TestExtractEMLHTMLOnlyFallsBackToStripped(t *testing.T) {
	eml := "From: cliente@example.com\r\n" +
		"Content-Type: multipart/alternative; boundary=\"fronteira\"\r\n" +
		"\r\n" +
		"--fronteira\r\n" +
		"Content-Type: text/html; charset=utf-8\r\n" +
		"\r\n" +
		"<html><body><p>apenas html</p></body></html>\r\n" +
		"--fronteira--\r\n"

	got := Extract("", "mensagem.eml", []byte(eml), 0)

	assert.Equal(t, "apenas html", got)
}

func TestExtractEMLMissingContentType(t *testing.T) {
	eml := "From: cliente@example.com\r\n" +
		"Subject: sem content-type\r\n" +
		"\r\n" +
		"corpo simples\r\n"

	got := Extract("", "mensagem.eml", []byte(eml), 0)

	assert.Equal(t, "corpo simples", got)
}

func TestExtractBrokenEMLFallsBackToRawBytes(t *testing.T) {
	data := []byte("não é um email válido, só texto")

	got := Extract("", "quebrado.eml", data, 0)

	assert.Equal(t, "não é um email válido, só texto", got)
}

func TestStripHTML(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "plain_paragraphs",
			src:  "<p>um</p><p>dois</p>",
			want: "um\ndois",
		},
		{
			name: "skips_script_and_style",
			src:  "<style>a{}</style><script>x()</script><div>visível</div>",
			want: "visível",
		},
		{
			name: "nested_tags",
			src:  "<div>antes <b>negrito</b> depois</div>",
			want: "antes\nnegrito\ndepois",
		},
		{
			name: "no_markup",
			src:  "texto puro",
			want: "texto puro",
		},
		{
			name: "empty",
			src:  "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripHTML(tt.src))
		})
	}
}

func TestClipKeepsShortTextIntact(t *testing.T) {
	long := strings.Repeat("a", 50)

	assert.Equal(t, long, Extract(long, "", nil, 50))
	assert.Len(t, Extract(long, "", nil, 10), 10)
}
