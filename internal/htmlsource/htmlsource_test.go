package htmlsource

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/specialistvlad/reqgraph/internal/curriculum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const disciplinesIndex = `<html><body>
<div class="container">
  <div class="lista-disc">
    <div>MC</div>
    <div>F&nbsp;</div>
  </div>
</div>
</body></html>`

const mcPage = `<html><body>
<div class="container">
<div class="row">
  <div class="col-md-12">
    <h3 id="disc-mc102">MC102 - Algoritmos e Programação de Computadores</h3>
    <p><strong>Créditos:</strong> 6</p>
    <p><strong>Requisitos:</strong>
    <span>Não há</span></p>
    <p><strong>Ementa:</strong>
    <span>Conceitos básicos de   organização de computadores.</span></p>
  </div>
</div>
<div class="row">
  <div class="col-md-12">
    <h3 id="disc-mc202">MC202 - Estruturas de Dados</h3>
    <p><strong>Créditos:</strong> 6</p>
    <p><strong>Pré-Requisitos:</strong>
    <span>MC102 ou *MC101</span></p>
    <p><strong>Ementa:</strong>
    <span>Listas, pilhas e filas.</span></p>
  </div>
</div>
<div class="row"><div class="col-md-12"><p>Rodapé sem disciplina.</p></div></div>
</div>
</body></html>`

const brokenPage = `<html><body>
<div class="row"><h3 id="disc-x">MC999 Sem separador</h3></div>
</body></html>`

const coursesIndex = `<html><body>
<ul>
  <li><span class="rotulo-curso">34 - Engenharia Física</span></li>
  <li><span class="rotulo-curso">42 - Ciência da Computação</span></li>
</ul>
</body></html>`

const singleTreePage = `<html><body>
<a name="${esp.codigo}"></a>
<div>
<h3>1º Semestre</h3>
<div><a href="../../disciplinas/ma.html#disc-ma111">MA111 6</a> <a href="../../disciplinas/f_.html#disc-f_128">F 128 4</a></div>
<h3>2º Semestre</h3>
<div><a href="../../disciplinas/f_.html#disc-f_228">F 228 4</a></div>
</div>
</body></html>`

const variantPage = `<html><body>
<div>
  <h2>AA - Sistemas de Computação</h2>
  <h3>1º Semestre</h3>
  <div><a href="../../disciplinas/mc.html#disc-mc102">MC102 6</a></div>
  <h3>2º Semestre</h3>
  <div><a href="../../disciplinas/mc.html#disc-mc202">MC202 6</a></div>
</div>
<div>
  <h2>Observação</h2>
  <p>Texto livre.</p>
</div>
<div>
  <h2>AB - Teoria</h2>
  <h3>1º Semestre</h3>
  <div><a href="../../disciplinas/mc.html#disc-mc102">MC102 6</a></div>
</div>
</body></html>`

func newCatalogServer(t *testing.T, pages map[string]string) (*httptest.Server, *sync.Map) {
	t.Helper()
	hits := &sync.Map{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Store(r.URL.Path, true)
		body, ok := pages[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, hits
}

func newTestSource(t *testing.T, srv *httptest.Server) *Source {
	t.Helper()
	s, err := New(Options{BaseURL: srv.URL + "/catalogo", RequestsPerSecond: -1})
	require.NoError(t, err)
	return s
}

func TestNew(t *testing.T) {
	testCases := []struct {
		name    string
		opts    Options
		wantErr string
	}{
		{name: "valid", opts: Options{BaseURL: "https://example.org/catalogo2021/"}},
		{name: "missing base url", opts: Options{}, wantErr: "base url is required"},
		{name: "bad scheme", opts: Options{BaseURL: "ftp://example.org/"}, wantErr: "scheme must be http or https"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s, err := New(tc.opts)
			if tc.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, DefaultNoneMarkers, s.noneMarkers)
			assert.InDelta(t, DefaultRequestsPerSecond, float64(s.limiter.Limit()), 0.001)
		})
	}
}

func TestGroupPath(t *testing.T) {
	assert.Equal(t, "disciplinas/mc.html", GroupPath("MC"))
	assert.Equal(t, "disciplinas/f_.html", GroupPath("F "))
}

func TestGroups(t *testing.T) {
	srv, _ := newCatalogServer(t, map[string]string{
		"/catalogo/disciplinas/index.html": disciplinesIndex,
	})
	s := newTestSource(t, srv)

	groups, err := s.Groups(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"MC", "F "}, groups)
}

func TestDisciplines(t *testing.T) {
	srv, hits := newCatalogServer(t, map[string]string{
		"/catalogo/disciplinas/mc.html": mcPage,
	})
	s := newTestSource(t, srv)

	frags, err := s.Disciplines(context.Background(), "MC")
	require.NoError(t, err)
	require.Len(t, frags, 2)

	_, ok := hits.Load("/catalogo/disciplinas/mc.html")
	assert.True(t, ok)

	assert.Equal(t, "MC102", frags[0].Code)
	assert.Equal(t, "Algoritmos e Programação de Computadores", frags[0].Name)
	assert.Equal(t, 6, frags[0].Credits)
	assert.Nil(t, frags[0].Requirements, "none marker means no requirements")
	assert.Equal(t, "Conceitos básicos de organização de computadores.", frags[0].Syllabus)

	assert.Equal(t, "MC202", frags[1].Code)
	require.NotNil(t, frags[1].Requirements)
	assert.Equal(t, "MC102 ou *MC101", *frags[1].Requirements)
	assert.Equal(t, "Listas, pilhas e filas.", frags[1].Syllabus)
}

func TestDisciplines_Errors(t *testing.T) {
	srv, _ := newCatalogServer(t, map[string]string{
		"/catalogo/disciplinas/xx.html": brokenPage,
	})
	s := newTestSource(t, srv)

	_, err := s.Disciplines(context.Background(), "XX")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed heading")

	_, err = s.Disciplines(context.Background(), "ZZ")
	require.ErrorIs(t, err, ErrUnexpectedStatus)
}

func TestCourses(t *testing.T) {
	srv, _ := newCatalogServer(t, map[string]string{
		"/catalogo/index.html":                coursesIndex,
		"/catalogo/cursos/34g/sugestao.html": singleTreePage,
		"/catalogo/cursos/42g/sugestao.html": variantPage,
	})
	s := newTestSource(t, srv)

	courses, err := s.Courses(context.Background())
	require.NoError(t, err)
	require.Len(t, courses, 2)

	assert.Equal(t, "34", courses[0].Code)
	assert.Equal(t, "Engenharia Física", courses[0].Name)
	assert.Equal(t, curriculum.Tree{{"MA111", "F 128"}, {"F 228"}}, courses[0].Tree)
	assert.Empty(t, courses[0].Variants)

	assert.Nil(t, courses[1].Tree)
	assert.Equal(t, []curriculum.Variant{
		{Name: "AA - Sistemas de Computação", Tree: curriculum.Tree{{"MC102"}, {"MC202"}}},
		{Name: "AB - Teoria", Tree: curriculum.Tree{{"MC102"}}},
	}, courses[1].Variants)
}

func TestFetch_RespectsCancellation(t *testing.T) {
	srv, _ := newCatalogServer(t, map[string]string{})
	s, err := New(Options{BaseURL: srv.URL, RequestsPerSecond: 0.001})
	require.NoError(t, err)

	// The first request consumes the burst; the second must wait ~1000s.
	_, _ = s.Groups(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	start := time.Now()
	_, err = s.Groups(ctx)
	require.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestFetch_OversizedPageFails(t *testing.T) {
	srv, _ := newCatalogServer(t, map[string]string{
		"/catalogo/disciplinas/mc.html": mcPage,
	})
	s, err := New(Options{BaseURL: srv.URL + "/catalogo", RequestsPerSecond: -1, MaxPageSize: 256})
	require.NoError(t, err)

	frags, err := s.Disciplines(context.Background(), "MC")
	require.ErrorIs(t, err, ErrPageTooLarge)
	assert.Nil(t, frags, "a truncated page must not yield fragments")

	s, err = New(Options{BaseURL: srv.URL + "/catalogo", RequestsPerSecond: -1, MaxPageSize: int64(len(mcPage))})
	require.NoError(t, err)
	frags, err = s.Disciplines(context.Background(), "MC")
	require.NoError(t, err, "a page exactly at the limit is accepted")
	assert.Len(t, frags, 2)
}
