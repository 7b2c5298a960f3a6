// Package manifest loads operator extension manifests.
//
// A manifest is a YAML file declaring additional operator descriptors:
//
//	apiVersion: opset/v1
//	requires: ">= 0.1.0"
//	operators:
//	  - name: FastGelu
//	    inputs: 1
//	    outputs: 1
//	    version: opset7
//	    infer: copy
//	    defaults:
//	      approximation_mode: TANH
//	    backend:
//	      opset7:
//	        - {name: approximation_mode, kind: string}
//
// Files are checked against an embedded JSON schema before they are decoded.
// Inference functions are referenced by name, see ops.InferFuncNames.
package manifest
