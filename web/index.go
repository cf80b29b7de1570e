package web

const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Fitness Q&amp;A</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", sans-serif;
               max-width: 720px; margin: 40px auto; padding: 0 16px; color: #222; }
        h1 { font-size: 1.6em; }
        p.hint { color: #666; }
        textarea { width: 100%; min-height: 80px; font-size: 1em; padding: 8px;
                   box-sizing: border-box; }
        button { margin-top: 10px; padding: 8px 20px; font-size: 1em; cursor: pointer; }
        #answer { margin-top: 24px; white-space: pre-wrap; background: #f6f6f6;
                  padding: 16px; border-radius: 6px; display: none; }
        #answer.error { background: #fdecea; }
    </style>
</head>
<body>
    <h1>Fitness Q&amp;A</h1>
    <p class="hint">Ask a question about fitness, training or recovery. Answers are
    grounded in transcripts of the ingested videos.</p>
    <textarea id="question" placeholder="How does sleep affect muscle growth?"></textarea>
    <br>
    <button id="submit">Ask</button>
    <div id="answer"></div>
    <script>
        const button = document.getElementById("submit");
        const answer = document.getElementById("answer");
        button.addEventListener("click", async () => {
            const question = document.getElementById("question").value.trim();
            if (!question) return;
            button.disabled = true;
            answer.style.display = "block";
            answer.classList.remove("error");
            answer.textContent = "Thinking...";
            try {
                const resp = await fetch("/api/v1/ask", {
                    method: "POST",
                    headers: { "Content-Type": "application/json" },
                    body: JSON.stringify({ question })
                });
                const data = await resp.json();
                if (!resp.ok) {
                    answer.classList.add("error");
                    answer.textContent = data.error || "request failed";
                } else {
                    answer.textContent = data.answer;
                }
            } catch (err) {
                answer.classList.add("error");
                answer.textContent = String(err);
            } finally {
                button.disabled = false;
            }
        });
    </script>
</body>
</html>
`
