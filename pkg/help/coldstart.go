package help

const ColdstartYAML = `# seo-tagger Quick Start

strategies:
  rule-based: "Keyword frequency + position scoring, offline, deterministic (default without a key)"
  ai: "Gemini or OpenAI-compatible analysis; falls back to rule-based on any failure"

commands:
  single_draft: |
    seo-tagger generate drafts/better-sleep.md

  to_stdout: |
    seo-tagger generate --stdout drafts/better-sleep.md

  with_overrides: |
    seo-tagger generate --author "Dana Reyes" --category Health --date 2025-03-14 drafts/better-sleep.md

  from_url: |
    seo-tagger generate --url "https://example.com/blog/better-sleep"

  from_stdin: |
    cat draft.md | seo-tagger generate --stdout

  batch: |
    seo-tagger batch --glob "drafts/**/*.md" --glob "notes/*.txt"

  watch: |
    seo-tagger watch --dir drafts

  http_endpoint: |
    seo-tagger serve --addr :8080
    curl -s localhost:8080/generate -d '{"content": "# Title\n\nBody...", "author": "Dana"}'

  history: |
    seo-tagger history list --limit 20
    seo-tagger history show 3f2a91c0

  offline: |
    seo-tagger --no-ai generate drafts/better-sleep.md

output_format:
  - "YAML front matter between --- delimiters, a blank line, then the draft body unchanged"
  - "Key order: title, meta_title, description, date, author, category, slug, canonical, robots, focus_keyword, ..."
  - "Written to <output.dir>/<slug>.md"

configuration:
  file: "--config path or SEO_TAGGER_CONFIG"
  env:
    GEMINI_API_KEY: "Enables the ai strategy with the gemini provider"
    OPENAI_API_KEY: "Enables the ai strategy with the openai provider"
    SEO_TAGGER_PROVIDER: "gemini | openai"
    SEO_TAGGER_MODEL: "Model name passed to the provider"
  sections: [ai, extraction, metadata, intent, output, database, cache, logging, server]

front_matter_overrides:
  - "title, author, category, audience and date in a draft's own front matter are kept"
  - "Command-line flags win over front matter"

fallback_reasons:
  no_credential: "No API key configured"
  unavailable: "Provider unreachable or rate limited"
  timeout: "AI call exceeded ai.timeout"
  malformed_response: "AI reply was not the expected JSON"
  service_error: "Provider rejected the request"

error_behavior:
  - "AI failures never fail a run; rule-based output is produced instead"
  - "Empty drafts and invalid overrides exit 1"
  - "Database, filesystem and config errors exit 2"
`
