package evaluation

// EvaluationError represents an error computing evaluation metrics
type EvaluationError string

/*
ErrEmptyTestSet is the error returned when computing the accuracy of
a confusion matrix that holds no predictions.
*/
const ErrEmptyTestSet = EvaluationError("cannot compute accuracy of an empty test set")

func (ee EvaluationError) Error() string {
	return string(ee)
}

/*
ConfusionMatrix counts predictions by actual and predicted class over a
LabelSpace. The sum of its cells equals the number of counted predictions
and its diagonal holds the correct ones.
*/
type ConfusionMatrix struct {
	space  LabelSpace
	counts [][]int
	total  int
}

// NewConfusionMatrix returns an empty matrix over the given label space
func NewConfusionMatrix(space LabelSpace) *ConfusionMatrix {
	n := len(space.Labels())
	counts := make([][]int, n)
	for i := range counts {
		counts[i] = make([]int, n)
	}
	return &ConfusionMatrix{space: space, counts: counts}
}

/*
Add counts a prediction of the predicted label for a row whose actual
label is given. It returns an *UnparsableLabelError, leaving the matrix
untouched, if either label is not a class of the matrix label space.
*/
func (cm *ConfusionMatrix) Add(actual, predicted string) error {
	a, err := cm.space.Index(actual)
	if err != nil {
		return err
	}
	p, err := cm.space.Index(predicted)
	if err != nil {
		if ule, ok := err.(*UnparsableLabelError); ok {
			ule.Predicted = true
		}
		return err
	}
	cm.counts[a][p]++
	cm.total++
	return nil
}

// Labels returns the labels of the matrix rows and columns
func (cm *ConfusionMatrix) Labels() []string {
	return cm.space.Labels()
}

// Count returns the number of rows with actual label index a predicted as p
func (cm *ConfusionMatrix) Count(a, p int) int {
	return cm.counts[a][p]
}

// Counts returns a copy of the matrix cells indexed by actual and predicted class
func (cm *ConfusionMatrix) Counts() [][]int {
	result := make([][]int, len(cm.counts))
	for i, row := range cm.counts {
		result[i] = append([]int(nil), row...)
	}
	return result
}

// Total returns the number of predictions in the matrix
func (cm *ConfusionMatrix) Total() int {
	return cm.total
}

// Correct returns the sum of the matrix diagonal
func (cm *ConfusionMatrix) Correct() int {
	var correct int
	for i := range cm.counts {
		correct += cm.counts[i][i]
	}
	return correct
}

/*
Accuracy returns the ratio of correct predictions over all predictions
in the matrix, or ErrEmptyTestSet if there are none.
*/
func (cm *ConfusionMatrix) Accuracy() (float64, error) {
	if cm.total == 0 {
		return 0, ErrEmptyTestSet
	}
	return float64(cm.Correct()) / float64(cm.total), nil
}

/*
Precision returns the ratio of rows predicted as the class with the given
index that actually belong to it. It is 0 when the class was never predicted.
*/
func (cm *ConfusionMatrix) Precision(class int) float64 {
	var predicted int
	for a := range cm.counts {
		predicted += cm.counts[a][class]
	}
	if predicted == 0 {
		return 0
	}
	return float64(cm.counts[class][class]) / float64(predicted)
}

/*
Recall returns the ratio of rows of the class with the given index that
were predicted as such. It is 0 when the class never occurred.
*/
func (cm *ConfusionMatrix) Recall(class int) float64 {
	var actual int
	for _, c := range cm.counts[class] {
		actual += c
	}
	if actual == 0 {
		return 0
	}
	return float64(cm.counts[class][class]) / float64(actual)
}
