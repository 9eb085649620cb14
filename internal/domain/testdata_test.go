package domain

const sampleDocument = `{
  "drawflow": {
    "Home": {
      "data": {
        "1": {
          "id": 1,
          "name": "Start",
          "data": {"templateId": "basic_start", "title": "Start", "content": "", "tooltip": ""},
          "class": "drawflow-node start-node",
          "html": "<div class=\"node-header\">Start</div>",
          "typenode": false,
          "inputs": {},
          "outputs": {"output_1": {"connections": [{"node": "2", "output": "input_1"}]}},
          "pos_x": 50,
          "pos_y": 50
        },
        "2": {
          "id": 2,
          "name": "Task",
          "data": {"templateId": "basic_intermediate", "title": "Task"},
          "class": "drawflow-node intermediate-node",
          "html": "",
          "typenode": false,
          "inputs": {"input_1": {"connections": [{"node": "1", "input": "output_1"}]}},
          "outputs": {"output_1": {"connections": []}},
          "pos_x": 300,
          "pos_y": 80.5
        }
      }
    }
  }
}`
