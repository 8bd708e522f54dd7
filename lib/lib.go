// Package lib provides a small spam classifier. The classifier is built from three packages:
//
//   - tfidf: feature extraction. Text is lowercased, split on non-alphanumeric runes, english stop-words
//     are dropped and the remaining tokens are weighted with smoothed tf-idf over the vocabulary learned
//     from the training corpus. Vectors are l2-normalized.
//
//   - bayes: two-class multinomial naive Bayes over tf-idf vectors with laplace smoothing. Predict returns
//     the most probable class and normalized probabilities of both classes, ties go to ham.
//
//   - model: lifecycle of the trained artifact. model.Manager loads the persisted artifact from a
//     model.Store or trains a new one from the embedded seed corpus (plus optional extra samples),
//     publishes it for concurrent readers and classifies texts with Predict.
//
// Typical usage:
//
//	m := model.NewManager(model.Config{Store: model.NewFileStore("var/model.json")})
//	res, err := m.Predict(ctx, "Click here to claim your prize now")
//	// res.Spam is true, res.Confidence is the probability of the predicted class
//
// Predict never rejects text: empty input or input without known words gives a prediction driven
// by class priors. The only error is a training corpus unable to produce a model.
package lib
