package docs

import "github.com/swaggo/swag"

const docTemplate = `{
  "swagger": "2.0",
  "info": {
    "title": "열고닫기 Backend",
    "description": "Orchestration API for youth counseling intake, scheduling and consultation flows",
    "version": "1.0"
  },
  "basePath": "/",
  "paths": {}
}`

func init() {
	swag.Register(swag.Name, &s{})
}

type s struct{}

func (s *s) ReadDoc() string {
	return docTemplate
}
