// Copyright 2024 UDPARSE contributors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func testRouter(a *Actions) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.POST("/parse", a.ParseSentence)
	engine.POST("/tokenize", a.Tokenize)
	engine.POST("/entities", a.ExtractEntities)
	return engine
}

func postJSON(t *testing.T, engine *gin.Engine, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestParseSentenceRejectsMismatchedInput(t *testing.T) {
	engine := testRouter(NewActions(nil, 256))
	w := postJSON(t, engine, "/parse", `{"tokens": ["a", "b"], "tags": ["DT"]}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "same length")
}

func TestParseSentenceRejectsEmptyTokens(t *testing.T) {
	engine := testRouter(NewActions(nil, 256))
	w := postJSON(t, engine, "/parse", `{"tokens": [], "tags": []}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestParseSentenceRejectsOverlongSentence(t *testing.T) {
	engine := testRouter(NewActions(nil, 2))
	w := postJSON(t, engine, "/parse", `{"tokens": ["a", "b", "c"], "tags": ["DT", "NN", "NN"]}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "too long")
}

func TestParseSentenceRejectsMalformedJSON(t *testing.T) {
	engine := testRouter(NewActions(nil, 256))
	w := postJSON(t, engine, "/parse", `{"tokens": `)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTokenizeRejectsEmptyText(t *testing.T) {
	engine := testRouter(NewActions(nil, 256))
	w := postJSON(t, engine, "/tokenize", `{"text": ""}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestExtractEntitiesRejectsMismatchedInput(t *testing.T) {
	engine := testRouter(NewActions(nil, 256))
	w := postJSON(t, engine, "/entities", `{"tokens": ["a"], "tags": []}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}
