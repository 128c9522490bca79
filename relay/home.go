// SPDX-FileCopyrightText: 2026 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package relay

import (
	"html/template"
	"net/http"
)

var homeTemplate = template.Must(template.New("").Parse(`
<!DOCTYPE html>
<html lang="ja">
  <head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>cue-receiver</title>
    <style>
      body { background: #223; color: #eee; font-family: sans-serif; text-align: center; }
      #board { max-width: 90vw; max-height: 75vh; border: 8px solid #3a5; }
      #caption { font-size: 2em; min-height: 1.5em; transition: opacity 0.5s; }
    </style>
  </head>
  <body>
    <img id="board" alt="">
    <p id="caption"></p>
    <p id="audio"></p>
    <script>
      const board = document.getElementById('board');
      const caption = document.getElementById('caption');
      const audio = document.getElementById('audio');
      const socket = new WebSocket("{{.}}");
      socket.onmessage = function(event) {
        const update = JSON.parse(event.data);
        switch (update.kind) {
        case 'image':
          board.src = 'data:' + update.mime + ';base64,' + update.data;
          break;
        case 'caption':
          caption.textContent = update.text;
          caption.style.opacity = update.speaking ? 1 : 0;
          break;
        case 'audio':
          audio.textContent = update.audioPath;
          break;
        }
      };
    </script>
  </body>
</html>
`))

func (s *Server) home(respWriter http.ResponseWriter, req *http.Request) {
	if req.URL.Path != "/" {
		http.NotFound(respWriter, req)

		return
	}

	if err := homeTemplate.Execute(respWriter, "ws://"+req.Host+"/update"); err != nil {
		s.log.Errorf("failed to execute template: %v", err)
		http.Error(respWriter, "Internal server error", http.StatusInternalServerError)
	}
}
